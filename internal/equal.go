package internal

import "reflect"

// isEqual reports whether b can replace a without notifying anyone.
// Comparable values use ==, maps, slices and funcs compare by identity and
// anything else falls back to reflect.DeepEqual.
func isEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	if ta.Comparable() {
		return comparableEqual(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return reflect.DeepEqual(a, b)
	}
}

// comparableEqual guards against comparable types holding interfaces with
// uncomparable dynamic values (struct{ X any } with X a slice).
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()

	return a == b
}
