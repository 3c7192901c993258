package tree

import (
	randv2 "math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func randomTree(t *testing.T, total int) *intTree {
	t.Helper()
	tree := &intTree{}
	for _, key := range randv2.Perm(total) {
		insertKey(tree, key)
	}
	requireValid(t, tree)
	return tree
}

func TestTreeNextPrev(t *testing.T) {
	tree := randomTree(t, 500)

	first, last := tree.First(), tree.Last()
	require.Equal(t, 0, first.key)
	require.Equal(t, 499, last.key)
	require.Nil(t, tree.Prev(first))
	require.Nil(t, tree.Next(last))

	idx := 0
	for x := first; x != nil; x = tree.Next(x) {
		require.Equal(t, idx, x.key)
		if next := tree.Next(x); next != nil {
			require.Same(t, x, tree.Prev(next))
		}
		if prev := tree.Prev(x); prev != nil {
			require.Same(t, x, tree.Next(prev))
		}
		idx++
	}
	require.Equal(t, 500, idx)

	for x := last; x != nil; x = tree.Prev(x) {
		idx--
		require.Equal(t, idx, x.key)
	}
	require.Equal(t, 0, idx)
}

func TestTreeIterators(t *testing.T) {
	tree := randomTree(t, 100)

	keys := make([]int, 0, 100)
	for x := range tree.Backward() {
		keys = append(keys, x.key)
	}
	require.Equal(t, lo.Reverse(lo.Range(100)), keys)

	keys = keys[:0]
	for x := range tree.All() {
		if x.key == 10 {
			break
		}
		keys = append(keys, x.key)
	}
	require.Equal(t, lo.Range(10), keys)

	count := 0
	for range tree.Postorder() {
		count++
		if count == 5 {
			break
		}
	}
	require.Equal(t, 5, count)
}

func TestTreePostorder(t *testing.T) {
	testcases := []struct {
		name  string
		total int
	}{
		{
			name:  "single",
			total: 1,
		},
		{
			name:  "three",
			total: 3,
		},
		{
			name:  "random 1000",
			total: 1000,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := randomTree(tt, tc.total)

			visited := make(map[*intItem]int, tc.total)
			seq := 0
			for x := tree.FirstPostorder(); x != nil; x = tree.NextPostorder(x) {
				_, seen := visited[x]
				require.False(tt, seen)
				if l := x.Left(); l != nil {
					_, ok := visited[l]
					require.True(tt, ok, "left child must come first")
				}
				if r := x.Right(); r != nil {
					_, ok := visited[r]
					require.True(tt, ok, "right child must come first")
				}
				visited[x] = seq
				seq++
			}
			require.Len(tt, visited, tc.total)
			require.Equal(tt, tc.total-1, visited[tree.Root()])

			seq = 0
			for x := range tree.Postorder() {
				require.Equal(tt, seq, visited[x])
				seq++
			}
		})
	}
}

func TestTreeRelease(t *testing.T) {
	tree := randomTree(t, 1000)
	items := make([]*intItem, 0, 1000)
	for x := range tree.All() {
		items = append(items, x)
	}

	released := make(map[int]struct{}, 1000)
	tree.Release(func(x *intItem) {
		_, dup := released[x.key]
		require.False(t, dup)
		require.False(t, x.Linked())
		require.Nil(t, x.Left())
		require.Nil(t, x.Right())
		released[x.key] = struct{}{}
	})
	require.Len(t, released, 1000)
	require.True(t, tree.IsEmpty())
	for _, x := range items {
		require.False(t, x.Linked())
		require.Nil(t, x.Parent())
	}

	// A released tree is reusable.
	insertKey(tree, 1)
	requireValid(t, tree)
	tree.Release(nil)
	require.True(t, tree.IsEmpty())
}
