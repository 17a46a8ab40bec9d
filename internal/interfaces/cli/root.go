package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/riskibarqy/pickleball-league/internal/app"
	"github.com/riskibarqy/pickleball-league/internal/config"
	"github.com/riskibarqy/pickleball-league/internal/platform/logging"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

func Run() ExitCode {
	rootCmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Pickleball league ingestion and standings CLI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	var verbose bool
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")

	rootCmd.AddCommand(
		NewRunCmd().Command(),
		NewStandingsCmd().Command(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return exitCodeError
	}

	return exitCodeSuccess
}

// newServices wires the same store and use cases as the API. Logs go to
// stderr so tables on stdout stay clean.
func newServices(ctx context.Context, cmd *cobra.Command) (*app.Services, *logging.Logger, error) {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewJSONWriter(os.Stderr, level).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)

	services, err := app.NewServices(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build services: %w", err)
	}
	return services, logger, nil
}
