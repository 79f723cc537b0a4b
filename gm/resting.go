package gm

import "math"

// Resting reports whether an object with bounds upper rests on an object with bounds
// lower, given the direction of gravity:
//
//   - upper is strictly above lower along the gravity axis,
//   - the lowest extent of upper lies within tolerance of the highest extent of lower,
//   - and both overlap when projected onto the axis perpendicular to gravity.
//
// Without gravity there is no up, and nothing is resting.
func Resting(upper, lower Rect, gravity Vec, tolerance float64) bool {
	if gravity.IsZero() {
		return false
	}

	up := gravity.Mul(-1).Normalized()

	upperHeight := upper.Project(up)
	lowerHeight := lower.Project(up)

	// coplanar objects have no clear supporter
	if upperHeight.Center() <= lowerHeight.Center() {
		return false
	}

	if math.Abs(upperHeight.Min-lowerHeight.Max) > tolerance {
		return false
	}

	side := up.Perp()
	return upper.Project(side).Overlap(lower.Project(side)) > 0
}
