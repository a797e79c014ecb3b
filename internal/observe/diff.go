package observe

import (
	"reflect"
	"slices"
	"sort"
	"strconv"
)

// node is a deep copy of a subtree taken before a mutation. Maps remember
// the identity of the live map they were copied from: a map replaced by
// another one is reported as a single update instead of being descended.
type node struct {
	ptr   uintptr
	value any
	keys  map[string]*node
	items []*node
}

func (n *node) isMap() bool  { return n.keys != nil }
func (n *node) isList() bool { return n.items != nil }

func snapshot(v any) *node {
	switch c := v.(type) {
	case map[string]any:
		n := &node{ptr: reflect.ValueOf(c).Pointer(), keys: make(map[string]*node, len(c))}
		for k, e := range c {
			n.keys[k] = snapshot(e)
		}
		return n
	case []any:
		n := &node{items: make([]*node, len(c))}
		for i, e := range c {
			n.items[i] = snapshot(e)
		}
		return n
	default:
		return &node{value: v}
	}
}

// materialize rebuilds a plain value from a snapshot.
func (n *node) materialize() any {
	switch {
	case n.isMap():
		m := make(map[string]any, len(n.keys))
		for k, e := range n.keys {
			m[k] = e.materialize()
		}
		return m
	case n.isList():
		l := make([]any, len(n.items))
		for i, e := range n.items {
			l[i] = e.materialize()
		}
		return l
	default:
		return n.value
	}
}

func diff(path []string, old *node, cur any, out *[]Change) {
	update := func() {
		*out = append(*out, Change{Path: path, Type: Update, Value: cur, OldValue: old.materialize()})
	}

	switch c := cur.(type) {
	case map[string]any:
		if !old.isMap() || old.ptr != reflect.ValueOf(c).Pointer() {
			update()
			return
		}

		for _, k := range sortedKeys(old.keys) {
			if _, ok := c[k]; !ok {
				*out = append(*out, Change{Path: extend(path, k), Type: Delete, OldValue: old.keys[k].materialize()})
			}
		}
		for _, k := range sortedKeys(c) {
			prev, ok := old.keys[k]
			if !ok {
				*out = append(*out, Change{Path: extend(path, k), Type: Insert, Value: c[k]})
				continue
			}
			diff(extend(path, k), prev, c[k], out)
		}

	case []any:
		if !old.isList() {
			update()
			return
		}

		shared := min(len(old.items), len(c))
		for i := 0; i < shared; i++ {
			diff(extend(path, strconv.Itoa(i)), old.items[i], c[i], out)
		}
		for i := shared; i < len(c); i++ {
			*out = append(*out, Change{Path: extend(path, strconv.Itoa(i)), Type: Insert, Value: c[i]})
		}
		for i := shared; i < len(old.items); i++ {
			*out = append(*out, Change{Path: extend(path, strconv.Itoa(i)), Type: Delete, OldValue: old.items[i].materialize()})
		}

	default:
		if old.isMap() || old.isList() || !scalarEqual(old.value, c) {
			update()
		}
	}
}

func scalarEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()

	return a == b
}

func extend(path []string, key string) []string {
	return append(slices.Clip(path), key)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
