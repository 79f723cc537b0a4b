package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/semlog"
	"github.com/oliverbestmann/semlog/gm"
	"github.com/oliverbestmann/semlog/physics"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Duration    time.Duration
	Profile     string // "" | "cpu" | "mem"
	ProfilePath string
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate objects dropping onto a table",
		Long: `Simulate a mug, a spoon and an unannotated crate dropping onto a table and
print the resulting contact and support events.

Examples:
  semlog simulate
  semlog simulate --duration 10s --profile cpu`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Duration, "duration", 3*time.Second, "simulated time")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "record a profile (cpu|mem)")
	cmd.Flags().StringVar(&opts.ProfilePath, "profile-path", ".", "directory to write the profile to")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	switch opts.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.ProfilePath), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(opts.ProfilePath), profile.Quiet).Stop()
	default:
		return WrapExitError(ExitCommandError, "invalid profile", fmt.Errorf("unknown profile %q", opts.Profile))
	}

	config, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	space, err := physics.NewSpace(config.Physics)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create space", err)
	}

	registry, err := spawnTabletop(space)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to spawn scene", err)
	}

	engine := semlog.NewEngine(space, space, registry, semlog.WithLogger(slog.Default()))
	if err := engine.Initialize(config.Engine); err != nil {
		return WrapExitError(ExitFailure, "failed to initialize engine", err)
	}

	printer := NewEventPrinter(cmd.OutOrStdout(), opts.Format)
	engine.AddObserver(printer.Observer())

	steps := space.Update(opts.Duration)

	slog.Info("Simulation finished",
		slog.Int("steps", steps),
		slog.Duration("elapsed", space.Elapsed()),
	)

	if err := engine.Shutdown(space.Now()); err != nil {
		return WrapExitError(ExitFailure, "failed to shut down engine", err)
	}

	if err := printer.Err(); err != nil {
		return WrapExitError(ExitFailure, "failed to write events", err)
	}

	if opts.Verbose {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Stats: %+v\n", engine.Stats())
	}

	return nil
}

type tabletopObject struct {
	entity physics.Entity
	ref    semlog.EntityRef
}

// spawnTabletop spawns the demo scene into the space and returns the semantic
// annotations of its entities.
func spawnTabletop(space *physics.Space) (*semlog.Registry, error) {
	objects := []tabletopObject{
		{
			entity: physics.Entity{
				Id:       2,
				Body:     physics.BodyStatic,
				Shape:    physics.BoxShape{Size: gm.Vec{X: 200, Y: 20}},
				Friction: 1,
				VolumeId: 12,
			},
			ref: semlog.EntityRef{SemanticId: "table-01", SemanticClass: "table"},
		},
		{
			entity: physics.Entity{
				Id:       1,
				Shape:    physics.BoxShape{Size: gm.Vec{X: 20, Y: 20}},
				Position: gm.Vec{X: -40, Y: 40},
				Mass:     1,
				Friction: 1,
				VolumeId: 11,
			},
			ref: semlog.EntityRef{SemanticId: "mug-01", SemanticClass: "mug"},
		},
		{
			entity: physics.Entity{
				Id:       3,
				Shape:    physics.CircleShape{Radius: 4},
				Position: gm.Vec{X: 40, Y: 30},
				Mass:     0.2,
				Friction: 1,
				VolumeId: 13,
			},
			ref: semlog.EntityRef{SemanticId: "spoon-01", SemanticClass: "spoon"},
		},
		{
			// not annotated, never takes part in a relation
			entity: physics.Entity{
				Id:       4,
				Shape:    physics.BoxShape{Size: gm.Vec{X: 30, Y: 30}},
				Position: gm.Vec{X: 0, Y: 60},
				Mass:     4,
				Friction: 1,
			},
		},
	}

	registry := semlog.NewRegistry()

	for _, object := range objects {
		if err := space.Spawn(object.entity); err != nil {
			return nil, err
		}

		if object.ref.SemanticId == "" {
			continue
		}

		ref := object.ref
		ref.RawId = object.entity.Id
		if err := registry.Register(ref); err != nil {
			return nil, err
		}

		volume := ref
		volume.RawId = object.entity.VolumeId
		volume.IsRelationVolume = true
		if err := registry.Register(volume); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
