package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/StinkyLord/horizon-pool/internal/config"
	"github.com/StinkyLord/horizon-pool/internal/inherit"
	"github.com/StinkyLord/horizon-pool/internal/output"
	"github.com/StinkyLord/horizon-pool/internal/scanner"
)

const toolVersion = "1.0.0"

var (
	flagConfig     string
	flagDir        string
	flagOutput     string
	flagFormat     string
	flagWorkers    int
	flagStrict     bool
	flagNoDefaults bool
	flagNoInherit  bool
	flagLogLevel   string
	flagLogFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "horizon-pool",
	Short: "Horizon EDA part pool resolver",
	Long: `horizon-pool reads the part files of a Horizon EDA pool and resolves
base-part inheritance, so every part carries the effective value of each field.

Inheritance rules:
  • MPN, manufacturer, value, description, datasheet — [inherit, value] pairs
  • entity, package, pad_map                         — always from the base part
  • model                                            — from the base unless inherit_model is false
  • prefix                                           — controlled by override_prefix
  • tags                                             — base tags followed by local tags
  • flags                                            — "inherit" entries take the base value`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "horizon-pool v%s\n", toolVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", ".", "Path to the pool root directory (contains parts/)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "-", "Output file path (use '-' for stdout)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "json", "Output format: json, yaml")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 4, "Number of part files parsed concurrently")
	rootCmd.PersistentFlags().BoolVar(&flagStrict, "strict", false, "Fail when a part references a missing base")
	rootCmd.PersistentFlags().BoolVar(&flagNoDefaults, "no-defaults", false, "Do not fill default values for absent fields")
	rootCmd.PersistentFlags().BoolVar(&flagNoInherit, "no-inherit", false, "Write the parsed pool without resolving inheritance")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "json", "Log format: json, console")

	rootCmd.AddCommand(resolveCmd, watchCmd, treeCmd, versionCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config (or the defaults and HORIZON_POOL_* variables)
// and applies any flags set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Pool.Path = flagDir
	}
	if flags.Changed("output") {
		cfg.Output.Path = flagOutput
	}
	if flags.Changed("format") {
		cfg.Output.Format = flagFormat
	}
	if flags.Changed("workers") {
		cfg.Pool.Workers = flagWorkers
	}
	if flags.Changed("strict") {
		cfg.Resolve.Strict = flagStrict
	}
	if flags.Changed("no-defaults") {
		fill := !flagNoDefaults
		cfg.Resolve.FillDefaults = &fill
	}
	if flags.Changed("no-inherit") {
		solve := !flagNoInherit
		cfg.Resolve.SolveInheritance = &solve
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = flagLogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(cfg.Pool.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve directory %q: %w", cfg.Pool.Path, err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("directory %q does not exist: %w", absDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", absDir)
	}
	cfg.Pool.Path = absDir

	return cfg, nil
}

// runPass scans the pool, resolves it and writes the result.
func runPass(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	s := scanner.New(cfg.Pool.Path,
		scanner.WithWorkers(cfg.Pool.Workers),
		scanner.WithLogger(logger),
	)
	scanned, err := s.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	logger.Info().Int("parts", len(scanned.Pool)).Msg("pool scanned")

	opts := []inherit.Option{inherit.WithLogger(logger)}
	if !cfg.FillDefaults() {
		opts = append(opts, inherit.WithoutDefaults())
	}
	resolver := inherit.New(opts...)

	var result any
	if cfg.SolveInheritance() {
		res, err := resolver.Resolve(scanned.Pool)
		if err != nil {
			return fmt.Errorf("resolve failed: %w", err)
		}
		if len(res.Diagnostics) > 0 {
			logger.Warn().Int("diagnostics", len(res.Diagnostics)).Msg("some parts fell back to defaults")
			if cfg.Resolve.Strict {
				return fmt.Errorf("%d unusable base reference(s), first: %s", len(res.Diagnostics), res.Diagnostics[0])
			}
		}
		result = res.Parts
	} else {
		result = resolver.Prepare(scanned.Pool)
	}

	if err := output.WriteFile(cfg.Output.Path, result, format); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if cfg.Output.Path != "-" {
		logger.Info().Str("path", cfg.Output.Path).Msg("resolved pool written")
	}
	return nil
}
