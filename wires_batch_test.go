package wires

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	t.Run("coalesces writes", func(t *testing.T) {
		log := []string{}

		a := NewSignal(0)
		b := NewSignal(0)
		sum := NewWire(func(t *Token) int {
			v := Track[int](t, a) + Track[int](t, b)
			log = append(log, fmt.Sprintf("sum %d", v))
			return v
		})
		sum.Get()

		Batch(func() {
			a.Write(1)
			b.Write(2)
			a.Write(3)
			log = append(log, "batched")
		})

		assert.Equal(t, []string{"sum 0", "batched", "sum 5"}, log)
		assert.Equal(t, 2, sum.Runs())
	})

	t.Run("nested batches flush once", func(t *testing.T) {
		s := NewSignal(0)
		w := NewWire(func(t *Token) int { return Track[int](t, s) })
		w.Get()

		Batch(func() {
			s.Write(1)
			Batch(func() {
				s.Write(2)
			})
			assert.Equal(t, 1, w.Runs())
			s.Write(3)
		})

		assert.Equal(t, 2, w.Runs())
		assert.Equal(t, 3, w.Get())
	})

	t.Run("signals and stores share a batch", func(t *testing.T) {
		calls := 0

		store := MustStore(map[string]any{"n": 1})
		s := NewSignal(1)
		w := NewWire(func(t *Token) int {
			calls++
			return Track[int](t, store.Key("n")) + Track[int](t, s)
		})
		w.Get()

		Batch(func() {
			s.Write(10)
			require.NoError(t, Update(store.Key("n"), func(v int) int { return v + 1 }))
		})

		assert.Equal(t, 12, w.Get())
		assert.Equal(t, 2, calls)
	})

	t.Run("runtime batch", func(t *testing.T) {
		rt, rec, _ := newTestRuntime(t, DefaultConfig())

		rt.Run(func() {
			s := NewSignal(0)
			w := NewWire(func(t *Token) int { return Track[int](t, s) })
			w.Get()

			rt.Batch(func() {
				s.Write(1)
				s.Write(2)
			})

			assert.Equal(t, 2, w.Get())
		})

		require.Len(t, rec.batches, 1)
		assert.Equal(t, 1, rec.batches[0].Ran)
	})
}
