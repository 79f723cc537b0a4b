package gm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var down = Vec{Y: -10}

func TestResting(t *testing.T) {
	table := RectWithCenterAndSize(Vec{}, Vec{X: 200, Y: 20})
	mug := RectWithCenterAndSize(Vec{X: 10, Y: 20}, Vec{X: 10, Y: 20})

	t.Run("mug on table", func(t *testing.T) {
		require.True(t, Resting(mug, table, down, 0.5))
	})

	t.Run("table is not on the mug", func(t *testing.T) {
		require.False(t, Resting(table, mug, down, 0.5))
	})

	t.Run("slightly sunken in", func(t *testing.T) {
		sunken := mug.Translate(Vec{Y: -0.1})
		require.True(t, Resting(sunken, table, down, 0.5))
	})

	t.Run("hovering above tolerance", func(t *testing.T) {
		hovering := mug.Translate(Vec{Y: 2})
		require.False(t, Resting(hovering, table, down, 0.5))
	})

	t.Run("next to the table", func(t *testing.T) {
		beside := mug.Translate(Vec{X: 200})
		require.False(t, Resting(beside, table, down, 0.5))
	})

	t.Run("touching edges only", func(t *testing.T) {
		edge := RectWithPoints(Vec{X: 100, Y: 10}, Vec{X: 110, Y: 30})
		require.False(t, Resting(edge, table, down, 0.5))
	})

	t.Run("coplanar", func(t *testing.T) {
		other := table.Translate(Vec{X: 50})
		require.False(t, Resting(other, table, down, 100))
		require.False(t, Resting(table, other, down, 100))
	})

	t.Run("no gravity", func(t *testing.T) {
		require.False(t, Resting(mug, table, Vec{}, 0.5))
	})

	t.Run("sideways gravity", func(t *testing.T) {
		// gravity pulls to the left, the wall on the left supports the box
		wall := RectWithPoints(Vec{X: -10, Y: -50}, Vec{X: 0, Y: 50})
		box := RectWithPoints(Vec{X: 0, Y: -5}, Vec{X: 10, Y: 5})
		require.True(t, Resting(box, wall, Vec{X: -1}, 0.5))
		require.False(t, Resting(wall, box, Vec{X: -1}, 0.5))
	})
}

func TestRect_Project(t *testing.T) {
	r := RectWithPoints(Vec{X: 1, Y: 2}, Vec{X: 3, Y: 6})

	require.Equal(t, Interval{Min: 2, Max: 6}, r.Project(Vec{Y: 1}))
	require.Equal(t, Interval{Min: -6, Max: -2}, r.Project(Vec{Y: -1}))

	diagonal := r.Project(Vec{X: 1, Y: 1}.Normalized())
	require.InDelta(t, 3/1.4142135623730951, diagonal.Min, 1e-9)
	require.InDelta(t, 9/1.4142135623730951, diagonal.Max, 1e-9)
}

func TestInterval_Overlap(t *testing.T) {
	a := Interval{Min: 0, Max: 10}

	require.Equal(t, 5.0, a.Overlap(Interval{Min: 5, Max: 15}))
	require.Equal(t, 0.0, a.Overlap(Interval{Min: 10, Max: 15}))
	require.Less(t, a.Overlap(Interval{Min: 11, Max: 15}), 0.0)
}
