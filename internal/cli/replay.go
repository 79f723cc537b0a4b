package cli

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/semlog"
	"github.com/oliverbestmann/semlog/internal/scenario"
	"github.com/spf13/cobra"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay recorded overlap notifications",
		Long: `Replay the raw overlap notifications of a scenario file and print the
resulting contact and support events.

Exit codes:
  0 - Scenario replayed
  1 - Engine failure
  2 - Command error (scenario not found, invalid config, etc.)

Examples:
  semlog replay tabletop.yaml
  semlog replay tabletop.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, cmd, args[0])
		},
	}

	return cmd
}

func runReplay(opts *RootOptions, cmd *cobra.Command, path string) error {
	config, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	sc, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	player := scenario.NewPlayer(sc)

	engine := semlog.NewEngine(player, player, sc.Registry(), semlog.WithLogger(slog.Default()))
	if err := engine.Initialize(config.Engine); err != nil {
		return WrapExitError(ExitFailure, "failed to initialize engine", err)
	}

	printer := NewEventPrinter(cmd.OutOrStdout(), opts.Format)
	engine.AddObserver(printer.Observer())

	slog.Info("Replay scenario", slog.String("name", sc.Name), slog.Int("steps", len(sc.Steps)))

	endTime := player.Play()

	if err := engine.Shutdown(endTime); err != nil {
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
