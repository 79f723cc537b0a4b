package physics

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/semlog/gm"
)

// Shape describes the solid collider of an entity. The same shape, grown by
// the configured padding, is used as the entities detection volume.
type Shape interface {
	makeShape(body *cp.Body, padding float64) *cp.Shape
	moment(mass float64) float64
}

type BoxShape struct {
	Size gm.Vec
}

func (s BoxShape) makeShape(body *cp.Body, padding float64) *cp.Shape {
	// the radius rounds the box, growing it by padding in every direction
	return cp.NewBox(body, s.Size.X, s.Size.Y, padding)
}

func (s BoxShape) moment(mass float64) float64 {
	return cp.MomentForBox(mass, s.Size.X, s.Size.Y)
}

type CircleShape struct {
	Radius float64
}

func (s CircleShape) makeShape(body *cp.Body, padding float64) *cp.Shape {
	return cp.NewCircle(body, s.Radius+padding, cp.Vector{})
}

func (s CircleShape) moment(mass float64) float64 {
	return cp.MomentForCircle(mass, 0, s.Radius, cp.Vector{})
}

func cpVecOf(vec gm.Vec) cp.Vector {
	return cp.Vector{X: vec.X, Y: vec.Y}
}

func toVec(v cp.Vector) gm.Vec {
	return gm.Vec{X: v.X, Y: v.Y}
}

func toRect(bb cp.BB) gm.Rect {
	return gm.Rect{
		Min: gm.Vec{X: bb.L, Y: bb.B},
		Max: gm.Vec{X: bb.R, Y: bb.T},
	}
}
