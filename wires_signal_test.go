package wires

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal(t *testing.T) {
	t.Run("read and write", func(t *testing.T) {
		count := NewSignal(0)
		assert.Equal(t, 0, count.Read())

		count.Write(10)
		assert.Equal(t, 10, count.Read())
	})

	t.Run("zero values", func(t *testing.T) {
		var err error
		s := NewSignal(err)
		assert.Nil(t, s.Read())

		m := NewSignal[map[string]int](nil)
		assert.Nil(t, m.Read())

		m.Write(map[string]int{"a": 1})
		assert.Equal(t, 1, m.Read()["a"])
	})

	t.Run("concurrent writes", func(t *testing.T) {
		count := NewSignal(0)
		seen := NewWire(func(t *Token) int { return Track[int](t, count) })
		seen.Get()

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Go(func() { count.Write(i + 1) })
		}
		wg.Wait()

		assert.Equal(t, count.Read(), seen.Get())
	})

	t.Run("equal write does not notify", func(t *testing.T) {
		log := []string{}

		name := NewSignal("ada")
		w := NewWire(func(t *Token) string {
			v := name.ReadTracked(t)
			log = append(log, "run "+v)
			return v
		})
		w.OnChange(func(v string) {
			log = append(log, "changed "+v)
		})

		w.Get()
		name.Write("ada")
		name.Write("grace")
		name.Write("grace")

		assert.Equal(t, []string{
			"run ada",
			"run grace",
			"changed grace",
		}, log)
		assert.Equal(t, 2, w.Runs())
	})

	t.Run("same slice is equal", func(t *testing.T) {
		items := []int{1, 2}
		s := NewSignal(items)
		w := NewWire(func(t *Token) int { return len(s.ReadTracked(t)) })
		w.Get()

		s.Write(items)
		assert.Equal(t, 1, w.Runs())

		s.Write([]int{1, 2})
		assert.Equal(t, 2, w.Runs())
	})

	t.Run("custom equality", func(t *testing.T) {
		type point struct{ X, Y int }

		p := NewSignal(point{1, 1}, WithEquals(func(a, b point) bool {
			return a.X == b.X
		}))
		w := NewWire(func(t *Token) point { return p.ReadTracked(t) })
		w.Get()

		p.Write(point{1, 2})
		assert.Equal(t, point{1, 1}, w.Get())

		p.Write(point{2, 2})
		assert.Equal(t, point{2, 2}, w.Get())
	})

	t.Run("untracked read does not subscribe", func(t *testing.T) {
		count := NewSignal(1)
		w := NewWire(func(t *Token) int { return count.Read() })

		assert.Equal(t, 1, w.Get())
		assert.Equal(t, 0, count.Subscribers())

		count.Write(2)
		assert.Equal(t, 1, w.Get())
	})

	t.Run("tracked read subscribes once", func(t *testing.T) {
		count := NewSignal(1)
		w := NewWire(func(t *Token) string {
			a := Track[int](t, count)
			b := count.ReadTracked(t)
			return fmt.Sprint(a, b)
		})

		assert.Equal(t, "1 1", w.Get())
		assert.Equal(t, 1, count.Subscribers())
	})

	t.Run("ids are unique", func(t *testing.T) {
		a, b := NewSignal(0), NewSignal(0)
		assert.NotEqual(t, a.ID(), b.ID())
		assert.Contains(t, a.ID().String(), "signal|")
	})
}
