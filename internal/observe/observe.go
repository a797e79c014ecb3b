// Package observe keeps a dynamic object tree (maps, slices and scalars) and
// reports the changes made to it as batches of path-addressed records.
package observe

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

var ErrPathNotFound = errors.New("observe: path not found")

type ChangeType uint8

const (
	Insert ChangeType = iota + 1
	Update
	Delete
)

func (c ChangeType) String() string {
	switch c {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change records one mutation of the tree.
type Change struct {
	Path     []string
	Type     ChangeType
	Value    any
	OldValue any
}

type observer struct {
	id int
	fn func([]Change)
}

type Tree struct {
	root any

	nextID    int
	observers []observer
}

// New normalizes root (see Normalize) and wraps it.
func New(root any) (*Tree, error) {
	n, err := Normalize(root)
	if err != nil {
		return nil, err
	}

	return &Tree{root: n}, nil
}

func (t *Tree) Root() any {
	return t.root
}

// Observe registers fn to receive one batch of changes per mutation.
func (t *Tree) Observe(fn func([]Change)) int {
	t.nextID++
	t.observers = append(t.observers, observer{id: t.nextID, fn: fn})
	return t.nextID
}

func (t *Tree) Unobserve(id int) {
	t.observers = slices.DeleteFunc(t.observers, func(o observer) bool {
		return o.id == id
	})
}

// Get returns the live value at path.
func (t *Tree) Get(path []string) (any, error) {
	cur := t.root
	for i, key := range path {
		next, ok := child(cur, key)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrPathNotFound, path[:i+1])
		}
		cur = next
	}

	return cur, nil
}

// Mutate hands the live value at path to fn, stores what fn returns at path
// and notifies observers of the resulting changes. fn may mutate maps and
// slices in place or return a new value.
func (t *Tree) Mutate(path []string, fn func(any) any) error {
	cur, err := t.Get(path)
	if err != nil {
		return err
	}

	before := snapshot(cur)

	next, err := Normalize(fn(cur))
	if err != nil {
		return err
	}
	if err := t.set(path, next); err != nil {
		return err
	}

	var changes []Change
	diff(slices.Clip(path), before, next, &changes)
	if len(changes) == 0 {
		return nil
	}

	for _, o := range slices.Clone(t.observers) {
		o.fn(changes)
	}

	return nil
}

func (t *Tree) set(path []string, v any) error {
	if len(path) == 0 {
		t.root = v
		return nil
	}

	parentPath, key := path[:len(path)-1], path[len(path)-1]
	parent, err := t.Get(parentPath)
	if err != nil {
		return err
	}

	switch p := parent.(type) {
	case map[string]any:
		p[key] = v
		return nil
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(p) {
			return fmt.Errorf("%w: %v", ErrPathNotFound, path)
		}
		p[i] = v
		return nil
	default:
		return fmt.Errorf("%w: %v", ErrPathNotFound, path)
	}
}

func child(v any, key string) (any, bool) {
	switch c := v.(type) {
	case map[string]any:
		next, ok := c[key]
		return next, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	default:
		return nil, false
	}
}
