package scenario

import (
	"log/slog"

	"github.com/oliverbestmann/semlog"
)

var _ semlog.OverlapSource = (*Player)(nil)
var _ semlog.GeometryQuery = (*Player)(nil)

type restingKey struct {
	supported, supporter semlog.RawId
}

// Player delivers the steps of a scenario to the subscribed handler and answers
// resting queries from the scenarios resting facts.
type Player struct {
	scenario *Scenario
	handler  semlog.OverlapHandler
	resting  map[restingKey]bool
}

func NewPlayer(scenario *Scenario) *Player {
	p := &Player{
		scenario: scenario,
		resting:  map[restingKey]bool{},
	}

	for _, resting := range scenario.Resting {
		p.resting[restingKey{resting.Supported, resting.Supporter}] = true
	}

	return p
}

func (p *Player) Subscribe(handler semlog.OverlapHandler) {
	p.handler = handler
}

func (p *Player) IsResting(supported, supporter semlog.RawId) bool {
	return p.resting[restingKey{supported, supporter}]
}

// Play runs all steps in order and returns the time of the last one.
func (p *Player) Play() float64 {
	for _, step := range p.scenario.Steps {
		p.apply(step)
	}

	return p.scenario.EndTime()
}

func (p *Player) apply(step Step) {
	switch step.Action {
	case ActionRest:
		p.resting[restingKey{step.Self, step.Other}] = true
		return

	case ActionUnrest:
		delete(p.resting, restingKey{step.Self, step.Other})
		return
	}

	if p.handler == nil {
		slog.Debug("Drop step, no handler subscribed", slog.String("action", string(step.Action)))
		return
	}

	switch step.Action {
	case ActionBegin:
		p.handler.OnOverlapBegin(step.Self, step.Other, nil, step.Time)

	case ActionEnd:
		p.handler.OnOverlapEnd(step.Self, step.Other, step.Time)

	case ActionRemove:
		p.handler.OnEntityRemoved(step.Self, step.Time)
	}
}
