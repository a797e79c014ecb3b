package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		s := NewSet(3, 1, 2, 1)

		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []int{3, 1, 2}, s.Slice())
	})

	t.Run("remove keeps order", func(t *testing.T) {
		s := NewSet("a", "b", "c", "d")

		assert.True(t, s.Remove("b"))
		assert.False(t, s.Remove("b"))
		assert.Equal(t, []string{"a", "c", "d"}, s.Slice())
		assert.True(t, s.Has("d"))

		s.Add("b")
		assert.Equal(t, []string{"a", "c", "d", "b"}, s.Slice())
	})

	t.Run("mutating while iterating", func(t *testing.T) {
		s := NewSet(1, 2, 3)

		seen := []int{}
		for v := range s.All() {
			seen = append(seen, v)
			s.Remove(v)
			s.Add(v * 10)
		}

		assert.Equal(t, []int{1, 2, 3}, seen)
		assert.Equal(t, []int{10, 20, 30}, s.Slice())
	})

	t.Run("nil set", func(t *testing.T) {
		var s *Set[int]

		assert.Equal(t, 0, s.Len())
		assert.False(t, s.Has(1))
		assert.False(t, s.Remove(1))
		assert.Nil(t, s.Slice())
	})

	t.Run("clone is independent", func(t *testing.T) {
		s := NewSet(1, 2)
		c := s.Clone()
		c.Add(3)

		assert.Equal(t, 2, s.Len())
		assert.Equal(t, 3, c.Len())
	})
}
