package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/horizon-pool/internal/logging"
	"github.com/StinkyLord/horizon-pool/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Resolve the pool and re-resolve whenever a part file changes",
	Long: `Resolve the pool once, then keep watching <dir>/parts and write a fresh
result after each burst of changes. Stops on SIGINT or SIGTERM.

Examples:
  horizon-pool watch --dir ~/horizon-pool --output resolved.json`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging, os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pass := func(ctx context.Context) error {
		return runPass(ctx, cfg, logger)
	}
	if err := pass(ctx); err != nil {
		logger.Error().Err(err).Msg("initial resolve failed")
	}

	return watch.New(cfg.Pool.Path, cfg.Watch.Debounce, logger, pass).Run(ctx)
}
