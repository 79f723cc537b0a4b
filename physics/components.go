package physics

import (
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/semlog"
	"github.com/oliverbestmann/semlog/gm"
)

type BodyKind uint8

const (
	BodyDynamic BodyKind = iota
	BodyStatic
	BodyKinematic
)

// Entity describes a simulated object.
type Entity struct {
	Id       semlog.RawId
	Body     BodyKind
	Shape    Shape
	Position gm.Vec

	// Mass of a dynamic body, defaults to 1
	Mass float64

	Friction   float64
	Elasticity float64

	// VolumeId is the raw id of the detection volume around the entity. The volume
	// reports overlaps on behalf of the entity. Zero disables the volume.
	VolumeId semlog.RawId
}

const (
	solidCollisionType cp.CollisionType = iota + 1
	volumeCollisionType
)

// shapeData is stored as the UserData of each cp.Shape.
type shapeData struct {
	// owner is the entity the shape belongs to, id the raw id
	// of the shape itself. Both are equal for solid shapes.
	owner  semlog.RawId
	id     semlog.RawId
	volume bool
}

type entity struct {
	id       semlog.RawId
	volumeId semlog.RawId

	body   *cp.Body
	solid  *cp.Shape
	volume *cp.Shape
}
