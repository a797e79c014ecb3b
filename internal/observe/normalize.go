package observe

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Normalize converts v into the shape a Tree holds: map[string]any for
// structs and string-keyed maps, []any for slices and arrays, scalars as
// they are. map[string]any and []any are converted in place so a live value
// keeps its identity. Structs go through mapstructure, so `mapstructure`
// tags name the keys. Structs without exported fields (time.Time) and byte
// slices are kept as scalars.
func Normalize(v any) (any, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		for k, e := range c {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			c[k] = n
		}
		return c, nil
	case []any:
		for i, e := range c {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			c[i] = n
		}
		return c, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("observe: unsupported map key type %s", rv.Type().Key())
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			n, err := Normalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			m[iter.Key().String()] = n
		}
		return m, nil

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v, nil
		}
		l := make([]any, rv.Len())
		for i := range l {
			n, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			l[i] = n
		}
		return l, nil

	case reflect.Struct:
		if !hasExportedFields(rv.Type()) {
			return v, nil
		}
		m := make(map[string]any)
		if err := mapstructure.Decode(v, &m); err != nil {
			return nil, fmt.Errorf("observe: decode %T: %w", v, err)
		}
		keepOpaqueFields(rv, m)
		return Normalize(m)

	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return nil, fmt.Errorf("observe: unsupported value of type %T", v)

	default:
		return v, nil
	}
}

func hasExportedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}

	return false
}

// keepOpaqueFields puts back struct fields mapstructure flattened to empty
// maps because they have no exported fields.
func keepOpaqueFields(rv reflect.Value, m map[string]any) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.Struct || hasExportedFields(f.Type) {
			continue
		}

		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}

		if _, ok := m[name]; ok {
			m[name] = rv.Field(i).Interface()
		}
	}
}
