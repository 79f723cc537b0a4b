package physics

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/semlog"
	"github.com/oliverbestmann/semlog/gm"
)

var (
	ErrDuplicateEntity = errors.New("entity already exists")
	ErrInvalidEntity   = errors.New("invalid entity")
)

var _ semlog.OverlapSource = (*Space)(nil)
var _ semlog.GeometryQuery = (*Space)(nil)

// Space simulates entities using chipmunk and reports the overlaps detected by
// their detection volumes to the subscribed semlog.OverlapHandler. It also answers
// resting queries using the bounds of the entities solid shapes.
type Space struct {
	config  Config
	space   *cp.Space
	handler semlog.OverlapHandler
	clock   Clock

	entities map[semlog.RawId]*entity

	// maps detection volume ids to their owning entity
	owners map[semlog.RawId]semlog.RawId

	timers map[semlog.RawId]*Timer

	// despawns requested while the space was stepping
	stepping bool
	pending  []semlog.RawId
}

func NewSpace(config Config) (*Space, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("create space: %w", err)
	}

	space := cp.NewSpace()
	space.SetGravity(cpVecOf(config.Gravity))
	space.Iterations = config.Iterations

	s := &Space{
		config:   config,
		space:    space,
		clock:    Clock{StepInterval: config.StepInterval},
		entities: map[semlog.RawId]*entity{},
		owners:   map[semlog.RawId]semlog.RawId{},
		timers:   map[semlog.RawId]*Timer{},
	}

	// detection volumes report everything they touch
	handler := space.NewWildcardCollisionHandler(volumeCollisionType)
	handler.BeginFunc = s.beginOverlap
	handler.SeparateFunc = s.endOverlap

	return s, nil
}

func (s *Space) Subscribe(handler semlog.OverlapHandler) {
	s.handler = handler
}

// Spawn adds a new entity to the space.
func (s *Space) Spawn(def Entity) error {
	if def.Id == 0 || def.Shape == nil || def.VolumeId == def.Id {
		return fmt.Errorf("spawn entity %d: %w", def.Id, ErrInvalidEntity)
	}

	if s.known(def.Id) || (def.VolumeId != 0 && s.known(def.VolumeId)) {
		return fmt.Errorf("spawn entity %d: %w", def.Id, ErrDuplicateEntity)
	}

	var body *cp.Body

	switch def.Body {
	case BodyStatic:
		body = cp.NewStaticBody()

	case BodyKinematic:
		body = cp.NewKinematicBody()

	default:
		mass := def.Mass
		if mass <= 0 {
			mass = 1
		}

		body = cp.NewBody(mass, def.Shape.moment(mass))
	}

	body.SetPosition(cpVecOf(def.Position))
	s.space.AddBody(body)

	solid := def.Shape.makeShape(body, 0)
	solid.SetFriction(def.Friction)
	solid.SetElasticity(def.Elasticity)
	solid.SetCollisionType(solidCollisionType)
	solid.UserData = shapeData{owner: def.Id, id: def.Id}
	s.space.AddShape(solid)

	e := &entity{
		id:       def.Id,
		volumeId: def.VolumeId,
		body:     body,
		solid:    solid,
	}

	if def.VolumeId != 0 {
		volume := def.Shape.makeShape(body, s.config.VolumePadding)
		volume.SetSensor(true)
		volume.SetCollisionType(volumeCollisionType)
		volume.UserData = shapeData{owner: def.Id, id: def.VolumeId, volume: true}
		s.space.AddShape(volume)

		e.volume = volume
		s.owners[def.VolumeId] = def.Id
	}

	s.entities[def.Id] = e

	slog.Debug("Spawn entity",
		slog.Any("id", def.Id),
		slog.Any("volumeId", def.VolumeId),
		slog.String("position", def.Position.String()),
	)

	return nil
}

// Despawn removes an entity and its detection volume. The subscribed handler
// is notified before the entity is removed.
func (s *Space) Despawn(id semlog.RawId) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}

	if s.stepping {
		// chipmunk does not allow removing shapes during a step
		s.pending = append(s.pending, id)
		return true
	}

	if s.handler != nil {
		now := s.clock.Seconds()

		s.handler.OnEntityRemoved(id, now)

		if e.volumeId != 0 {
			s.handler.OnEntityRemoved(e.volumeId, now)
		}
	}

	// removing shapes runs the separate callbacks for all of their overlaps,
	// the handler already forgot about them.
	if e.volume != nil {
		s.space.RemoveShape(e.volume)
		delete(s.owners, e.volumeId)
	}

	s.space.RemoveShape(e.solid)
	s.space.RemoveBody(e.body)

	delete(s.entities, id)
	delete(s.timers, id)

	slog.Debug("Despawn entity", slog.Any("id", id))

	return true
}

// DespawnAfter despawns the entity once the given amount of simulation time has passed.
func (s *Space) DespawnAfter(id semlog.RawId, duration time.Duration) bool {
	if _, ok := s.entities[id]; !ok {
		return false
	}

	timer := NewTimer(duration)
	s.timers[id] = &timer

	return true
}

// Update advances the simulation by delta, in steps of the configured step interval.
// It returns the number of steps taken.
func (s *Space) Update(delta time.Duration) int {
	return s.clock.Advance(delta, s.step)
}

// Step advances the simulation by exactly one step interval.
func (s *Space) Step() {
	s.clock.Advance(s.clock.StepInterval, s.step)
}

func (s *Space) step() {
	s.stepping = true
	s.space.Step(s.clock.DeltaSecs)
	s.stepping = false

	for _, id := range slices.Sorted(maps.Keys(s.timers)) {
		if s.timers[id].Tick(s.clock.Delta).JustFinished() {
			s.pending = append(s.pending, id)
		}
	}

	for len(s.pending) > 0 {
		id := s.pending[0]
		s.pending = s.pending[1:]
		s.Despawn(id)
	}
}

// Now returns the elapsed simulation time in seconds.
func (s *Space) Now() float64 {
	return s.clock.Seconds()
}

func (s *Space) Elapsed() time.Duration {
	return s.clock.Elapsed
}

func (s *Space) Position(id semlog.RawId) (gm.Vec, bool) {
	e, ok := s.entities[id]
	if !ok {
		return gm.Vec{}, false
	}

	return toVec(e.body.Position()), true
}

// Bounds returns the bounding box of the entities solid shape.
func (s *Space) Bounds(id semlog.RawId) (gm.Rect, bool) {
	e, ok := s.entities[id]
	if !ok {
		return gm.Rect{}, false
	}

	return toRect(e.solid.BB()), true
}

// Owner returns the entity owning the detection volume with the given id.
func (s *Space) Owner(volumeId semlog.RawId) (semlog.RawId, bool) {
	owner, ok := s.owners[volumeId]
	return owner, ok
}

// IsResting implements semlog.GeometryQuery. Detection volumes never rest on anything.
func (s *Space) IsResting(supported, supporter semlog.RawId) bool {
	upper, ok := s.Bounds(supported)
	if !ok {
		return false
	}

	lower, ok := s.Bounds(supporter)
	if !ok {
		return false
	}

	return gm.Resting(upper, lower, s.config.Gravity, s.config.SupportTolerance)
}

func (s *Space) known(id semlog.RawId) bool {
	_, isEntity := s.entities[id]
	_, isVolume := s.owners[id]
	return isEntity || isVolume
}

func (s *Space) beginOverlap(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	self, other, otherShape, ok := overlapOf(arb)
	if ok && s.handler != nil {
		s.handler.OnOverlapBegin(self.owner, other.id, otherShape, s.clock.Seconds())
	}

	// sensors never produce a collision response, keep tracking the overlap
	return true
}

func (s *Space) endOverlap(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	self, other, _, ok := overlapOf(arb)
	if ok && s.handler != nil {
		s.handler.OnOverlapEnd(self.owner, other.id, s.clock.Seconds())
	}
}

// overlapOf returns the detection volume and the shape it overlaps with. The owner of
// the returned volume is reported as self, unless the other shape is a volume too.
func overlapOf(arb *cp.Arbiter) (self, other shapeData, otherShape *cp.Shape, ok bool) {
	a, b := arb.Shapes()

	dataA, okA := a.UserData.(shapeData)
	dataB, okB := b.UserData.(shapeData)

	switch {
	case !okA || !okB:
		return

	case dataA.volume && dataB.volume:
		// both volumes report the overlap, each one on its own behalf,
		// so that both reports share the same pair
		dataA.owner = dataA.id
		return dataA, dataB, b, true

	case dataA.volume:
		return dataA, dataB, b, true

	case dataB.volume:
		return dataB, dataA, a, true
	}

	return
}
