package internal

import "iter"

// Set is an insertion-ordered set. Iteration follows insertion order so
// batches run in the order their wires subscribed.
type Set[T comparable] struct {
	items []T
	index map[T]int
}

func NewSet[T comparable](items ...T) *Set[T] {
	s := &Set[T]{}
	for _, item := range items {
		s.Add(item)
	}

	return s
}

func (s *Set[T]) Add(v T) bool {
	if s.index == nil {
		s.index = make(map[T]int)
	}
	if _, ok := s.index[v]; ok {
		return false
	}

	s.index[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

func (s *Set[T]) Remove(v T) bool {
	if s == nil {
		return false
	}

	i, ok := s.index[v]
	if !ok {
		return false
	}
	delete(s.index, v)

	copy(s.items[i:], s.items[i+1:])
	var zero T
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]

	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}

	return true
}

func (s *Set[T]) Has(v T) bool {
	if s == nil {
		return false
	}

	_, ok := s.index[v]
	return ok
}

func (s *Set[T]) Len() int {
	if s == nil {
		return 0
	}

	return len(s.items)
}

// All iterates over a snapshot, so the set may be mutated while iterating.
func (s *Set[T]) All() iter.Seq[T] {
	items := s.Slice()

	return func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

// Slice returns a copy of the set's items.
func (s *Set[T]) Slice() []T {
	if s == nil {
		return nil
	}

	items := make([]T, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Set[T]) Clone() *Set[T] {
	return NewSet(s.Slice()...)
}
