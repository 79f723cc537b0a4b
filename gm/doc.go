// Package gm (stands for geometry math) provides the few geometry primitives
// needed to reason about resting contacts.
//
// It includes a 2d vector type called Vec, an axis aligned rectangle Rect and a
// closed Interval on a line. Resting applies the supported-by decision rule to
// the bounds of two entities.
package gm
