package gm

import "fmt"

// Interval is a closed range of values on a line.
type Interval struct {
	Min, Max float64
}

func (i Interval) Extend(value float64) Interval {
	i.Min = min(i.Min, value)
	i.Max = max(i.Max, value)
	return i
}

func (i Interval) Center() float64 {
	return (i.Min + i.Max) / 2
}

// Overlap returns the length of the range both intervals share. It is zero or
// negative if the intervals are disjoint or only touch.
func (i Interval) Overlap(other Interval) float64 {
	return min(i.Max, other.Max) - max(i.Min, other.Min)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%v, %v]", i.Min, i.Max)
}
