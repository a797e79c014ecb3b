package observe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T, root any) (*Tree, *[][]Change) {
	t.Helper()

	tree, err := New(root)
	require.NoError(t, err)

	batches := &[][]Change{}
	tree.Observe(func(changes []Change) {
		*batches = append(*batches, changes)
	})

	return tree, batches
}

func TestMutate(t *testing.T) {
	t.Run("scalar update", func(t *testing.T) {
		tree, batches := newTree(t, map[string]any{"a": map[string]any{"b": 1}})

		require.NoError(t, tree.Mutate([]string{"a", "b"}, func(any) any { return 2 }))

		require.Len(t, *batches, 1)
		assert.Equal(t, []Change{
			{Path: []string{"a", "b"}, Type: Update, Value: 2, OldValue: 1},
		}, (*batches)[0])

		v, err := tree.Get([]string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})

	t.Run("in place map mutation", func(t *testing.T) {
		tree, batches := newTree(t, map[string]any{"x": 1, "y": 2})

		require.NoError(t, tree.Mutate(nil, func(v any) any {
			m := v.(map[string]any)
			delete(m, "x")
			m["y"] = 3
			m["z"] = 4
			return m
		}))

		require.Len(t, *batches, 1)
		assert.Equal(t, []Change{
			{Path: []string{"x"}, Type: Delete, OldValue: 1},
			{Path: []string{"y"}, Type: Update, Value: 3, OldValue: 2},
			{Path: []string{"z"}, Type: Insert, Value: 4},
		}, (*batches)[0])
	})

	t.Run("replaced map is one update", func(t *testing.T) {
		tree, batches := newTree(t, map[string]any{"user": map[string]any{"name": "ada"}})

		require.NoError(t, tree.Mutate([]string{"user"}, func(any) any {
			return map[string]any{"name": "ada"}
		}))

		require.Len(t, *batches, 1)
		changes := (*batches)[0]
		require.Len(t, changes, 1)
		assert.Equal(t, []string{"user"}, changes[0].Path)
		assert.Equal(t, Update, changes[0].Type)
		assert.Equal(t, map[string]any{"name": "ada"}, changes[0].OldValue)
	})

	t.Run("list push and pop", func(t *testing.T) {
		tree, batches := newTree(t, map[string]any{"list": []any{1, 2}})

		require.NoError(t, tree.Mutate([]string{"list"}, func(v any) any {
			return append(v.([]any), 3)
		}))
		require.NoError(t, tree.Mutate([]string{"list"}, func(v any) any {
			l := v.([]any)
			return l[:1]
		}))

		require.Len(t, *batches, 2)
		assert.Equal(t, []Change{
			{Path: []string{"list", "2"}, Type: Insert, Value: 3},
		}, (*batches)[0])
		assert.Equal(t, []Change{
			{Path: []string{"list", "1"}, Type: Delete, OldValue: 2},
			{Path: []string{"list", "2"}, Type: Delete, OldValue: 3},
		}, (*batches)[1])
	})

	t.Run("no change, no batch", func(t *testing.T) {
		tree, batches := newTree(t, map[string]any{"a": 1})

		require.NoError(t, tree.Mutate([]string{"a"}, func(v any) any { return v }))
		assert.Empty(t, *batches)
	})

	t.Run("missing path", func(t *testing.T) {
		tree, batches := newTree(t, map[string]any{"list": []any{}})

		err := tree.Mutate([]string{"nope"}, func(v any) any { return v })
		assert.ErrorIs(t, err, ErrPathNotFound)

		_, err = tree.Get([]string{"list", "3"})
		assert.ErrorIs(t, err, ErrPathNotFound)
		assert.Empty(t, *batches)
	})

	t.Run("unobserve", func(t *testing.T) {
		tree, err := New(map[string]any{"a": 1})
		require.NoError(t, err)

		calls := 0
		id := tree.Observe(func([]Change) { calls++ })

		require.NoError(t, tree.Mutate([]string{"a"}, func(any) any { return 2 }))
		tree.Unobserve(id)
		require.NoError(t, tree.Mutate([]string{"a"}, func(any) any { return 3 }))

		assert.Equal(t, 1, calls)
	})

	t.Run("paths are not shared between records", func(t *testing.T) {
		tree, batches := newTree(t, map[string]any{"m": map[string]any{"a": 1, "b": 2}})

		require.NoError(t, tree.Mutate([]string{"m"}, func(v any) any {
			m := v.(map[string]any)
			m["a"], m["b"] = 10, 20
			return m
		}))

		changes := (*batches)[0]
		require.Len(t, changes, 2)
		assert.Equal(t, []string{"m", "a"}, changes[0].Path)
		assert.Equal(t, []string{"m", "b"}, changes[1].Path)
	})
}

func TestChangeType(t *testing.T) {
	assert.Equal(t, "insert", Insert.String())
	assert.Equal(t, "update", Update.String())
	assert.Equal(t, "delete", Delete.String())
	assert.Equal(t, "unknown", ChangeType(0).String())
}
