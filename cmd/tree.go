package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StinkyLord/horizon-pool/internal/logging"
	"github.com/StinkyLord/horizon-pool/internal/model"
	"github.com/StinkyLord/horizon-pool/internal/output"
	"github.com/StinkyLord/horizon-pool/internal/scanner"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the pool's base-part hierarchy",
	Long: `Read every part under <dir>/parts and write the inheritance hierarchy:
parts without a usable base at the top level, each carrying the parts derived
from it as children.

Examples:
  horizon-pool tree --dir ~/horizon-pool --format yaml`,
	RunE: runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging, os.Stderr)

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	s := scanner.New(cfg.Pool.Path,
		scanner.WithWorkers(cfg.Pool.Workers),
		scanner.WithLogger(logger),
	)
	scanned, err := s.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	roots := model.BuildInheritanceTree(scanned.Pool)
	if roots == nil {
		roots = []*model.TreeNode{}
	}
	logger.Info().Int("parts", len(scanned.Pool)).Int("roots", len(roots)).Msg("inheritance tree built")

	if err := output.WriteFile(cfg.Output.Path, roots, format); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
