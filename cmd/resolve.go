package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/horizon-pool/internal/logging"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve inheritance across a pool and write the result",
	Long: `Read every part under <dir>/parts, resolve base-part inheritance and
write the resolved pool as a uuid-keyed JSON or YAML document.

Examples:
  horizon-pool resolve --dir ~/horizon-pool --output resolved.json
  horizon-pool resolve --dir . --format yaml --output -
  horizon-pool resolve --dir . --no-inherit --no-defaults`,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging, os.Stderr)
	logger.Info().Str("version", toolVersion).Str("pool", cfg.Pool.Path).Msg("resolving pool")

	return runPass(cmd.Context(), cfg, logger)
}
