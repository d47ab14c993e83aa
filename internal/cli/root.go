package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the released version of specsynth
const Version = "v0.1.0"

var (
	cfgFile  string
	repoRoot string
	outDir   string
	verbose  bool

	// logger is built in PersistentPreRunE; commands may rely on it being set
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "specsynth",
	Short: "specsynth - Canonical spec synthesis from clustered documentation",
	Long: `specsynth turns a documentation inventory (document index, cluster map,
authority candidates) into one canonical specification per cluster, plus a
master index, a traceability matrix, a conflict register and a deprecation map.

Every generated claim links back to the source document and heading it came
from. Given the same inputs and RUN_CONFIG.json, output is byte-identical
except for the run metadata in ISA_MASTER_SPEC.md.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(cmd.ErrOrStderr(), verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of specsynth.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "specsynth %s\n", Version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "run configuration file (default: <out>/RUN_CONFIG.json when present)")
	rootCmd.PersistentFlags().StringVar(&repoRoot, "repo-root", "", "repository root (default: nearest ancestor containing .git)")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", "", "output directory, relative to the repo root (default: docs/spec)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Flags win over ISA_* environment variables
	viper.SetEnvPrefix("ISA")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("repo_root", rootCmd.PersistentFlags().Lookup("repo-root"))
	_ = viper.BindPFlag("phase3_out", rootCmd.PersistentFlags().Lookup("out"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds a console logger on w; debug level when verbose
func newLogger(w io.Writer, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build(zap.WrapCore(func(zapcore.Core) zapcore.Core {
		enc := zapcore.NewConsoleEncoder(config.EncoderConfig)
		return zapcore.NewCore(enc, zapcore.AddSync(w), config.Level)
	}))
}

// workDir returns the current directory for repo root detection
func workDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}
