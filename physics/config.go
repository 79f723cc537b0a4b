package physics

import (
	"errors"
	"fmt"
	"time"

	"github.com/oliverbestmann/semlog"
	"github.com/oliverbestmann/semlog/gm"
)

type Config struct {
	Gravity gm.Vec `yaml:"gravity"`

	// VolumePadding is the distance a detection volume extends beyond the solid shape.
	VolumePadding float64 `yaml:"volume_padding" env:"SEMLOG_PHYSICS_VOLUME_PADDING"`

	// SupportTolerance is the maximum gap between two entities along the gravity
	// axis for one of them to be resting on the other one.
	SupportTolerance float64 `yaml:"support_tolerance" env:"SEMLOG_PHYSICS_SUPPORT_TOLERANCE"`

	StepInterval time.Duration `yaml:"step_interval" env:"SEMLOG_PHYSICS_STEP_INTERVAL"`
	Iterations   uint          `yaml:"iterations" env:"SEMLOG_PHYSICS_ITERATIONS"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:          gm.Vec{Y: -100},
		VolumePadding:    1,
		SupportTolerance: 2,

		// 64 hz
		StepInterval: time.Second / 64,
		Iterations:   10,
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.VolumePadding < 0 {
		errs = append(errs, fmt.Errorf("volume padding must not be negative, got %v", c.VolumePadding))
	}

	if c.SupportTolerance < c.VolumePadding {
		errs = append(errs, fmt.Errorf("support tolerance %v must not be smaller than the volume padding %v",
			c.SupportTolerance, c.VolumePadding))
	}

	if c.StepInterval <= 0 {
		errs = append(errs, fmt.Errorf("step interval must be positive, got %s", c.StepInterval))
	}

	if c.Iterations == 0 {
		errs = append(errs, errors.New("iterations must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", semlog.ErrInvalidConfig, err)
	}

	return nil
}
