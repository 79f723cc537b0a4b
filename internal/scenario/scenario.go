// Package scenario replays recorded overlap notifications into a semlog.Engine.
//
// A scenario is a YAML document listing the annotated entities, the resting facts the
// geometry query should report and the timed raw notifications of the physics engine.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/oliverbestmann/semlog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("invalid scenario")

type Action string

const (
	ActionBegin  Action = "begin"
	ActionEnd    Action = "end"
	ActionRemove Action = "remove"
	ActionRest   Action = "rest"
	ActionUnrest Action = "unrest"
)

type Entity struct {
	Id         semlog.RawId `yaml:"id"`
	SemanticId string       `yaml:"semantic_id"`
	Class      string       `yaml:"class"`

	// Volume marks the entity as a detection volume.
	Volume bool `yaml:"volume"`
}

// Resting states that Supported rests on top of Supporter.
type Resting struct {
	Supported semlog.RawId `yaml:"supported"`
	Supporter semlog.RawId `yaml:"supporter"`
}

// Step is a single notification. For rest and unrest, Self is the supported and
// Other the supporting entity.
type Step struct {
	Time   float64      `yaml:"t"`
	Action Action       `yaml:"action"`
	Self   semlog.RawId `yaml:"self"`
	Other  semlog.RawId `yaml:"other"`
}

type Scenario struct {
	Name     string    `yaml:"name"`
	Entities []Entity  `yaml:"entities"`
	Resting  []Resting `yaml:"resting"`
	Steps    []Step    `yaml:"steps"`
}

// Load reads and validates the scenario at the given path.
func Load(path string) (*Scenario, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	scenario, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: %w", path, err)
	}

	return scenario, nil
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(buf []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)

	var scenario Scenario
	if err := dec.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (s *Scenario) Validate() error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}

	known := map[semlog.RawId]bool{}
	for idx, entity := range s.Entities {
		switch {
		case entity.Id == 0:
			errs = append(errs, fmt.Errorf("entity %d: id is required", idx))

		case known[entity.Id]:
			errs = append(errs, fmt.Errorf("entity %d: duplicate id %d", idx, entity.Id))
		}

		known[entity.Id] = true
	}

	for idx, resting := range s.Resting {
		if resting.Supported == 0 || resting.Supporter == 0 || resting.Supported == resting.Supporter {
			errs = append(errs, fmt.Errorf("resting %d: needs two distinct entities", idx))
		}
	}

	var previousTime float64
	for idx, step := range s.Steps {
		if step.Time < previousTime {
			errs = append(errs, fmt.Errorf("step %d: time %v is before %v", idx, step.Time, previousTime))
		}

		previousTime = max(previousTime, step.Time)

		switch step.Action {
		case ActionBegin, ActionEnd, ActionRest, ActionUnrest:
			if step.Self == 0 || step.Other == 0 || step.Self == step.Other {
				errs = append(errs, fmt.Errorf("step %d: %s needs two distinct entities", idx, step.Action))
			}

		case ActionRemove:
			if step.Self == 0 {
				errs = append(errs, fmt.Errorf("step %d: remove needs an entity", idx))
			}

		default:
			errs = append(errs, fmt.Errorf("step %d: unknown action %q", idx, step.Action))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}

	return nil
}

// Registry returns a resolver for all entities that carry a semantic id.
// Entities without one stay unannotated.
func (s *Scenario) Registry() *semlog.Registry {
	registry := semlog.NewRegistry()

	for _, entity := range s.Entities {
		if entity.SemanticId == "" {
			continue
		}

		// can not fail, the semantic id is set
		_ = registry.Register(semlog.EntityRef{
			RawId:            entity.Id,
			SemanticId:       entity.SemanticId,
			SemanticClass:    entity.Class,
			IsRelationVolume: entity.Volume,
		})
	}

	return registry
}

// EndTime returns the time of the last step.
func (s *Scenario) EndTime() float64 {
	if len(s.Steps) == 0 {
		return 0
	}

	return s.Steps[len(s.Steps)-1].Time
}
