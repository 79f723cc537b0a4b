package set

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	var s Set[int]

	require.False(t, s.Has(1))
	require.False(t, s.Remove(1))

	require.True(t, s.Insert(3))
	require.True(t, s.Insert(1))
	require.False(t, s.Insert(3))
	require.Equal(t, 2, s.Len())

	require.Equal(t, []int{1, 3}, Sorted(&s, cmp.Compare[int]))

	require.True(t, s.Remove(3))
	require.False(t, s.Has(3))
	require.Equal(t, []int{1}, Sorted(&s, cmp.Compare[int]))
}
