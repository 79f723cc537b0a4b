package semlog

import (
	"slices"
)

// Observer receives the events emitted by an Engine. Create one using NewObserver and
// optionally narrow it down to some event kinds or entities.
type Observer struct {
	callback func(ev Event)
	kinds    []EventKind
	entities []RawId
}

func NewObserver(callback func(ev Event)) Observer {
	if callback == nil {
		panic("Observer callback must not be nil")
	}

	return Observer{callback: callback}
}

// WatchKind restricts the observer to the given event kinds.
func (o Observer) WatchKind(kinds ...EventKind) Observer {
	o.kinds = append(slices.Clone(o.kinds), kinds...)
	return o
}

// WatchEntity restricts the observer to events where the given entity takes part in.
func (o Observer) WatchEntity(id RawId) Observer {
	o.entities = append(slices.Clone(o.entities), id)
	return o
}

func (o Observer) IsScoped() bool {
	return len(o.entities) > 0
}

// Observes returns true if the observer wants to receive the event.
func (o Observer) Observes(ev Event) bool {
	if len(o.kinds) > 0 && !slices.Contains(o.kinds, ev.Kind) {
		return false
	}

	if o.IsScoped() && !slices.Contains(o.entities, ev.A.RawId) && !slices.Contains(o.entities, ev.B.RawId) {
		return false
	}

	return true
}

// ObserverId identifies an observer registered with an Engine.
type ObserverId uint32

type registeredObserver struct {
	id       ObserverId
	observer Observer
}
