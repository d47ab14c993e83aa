package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/specsynth/internal/config"
)

var (
	showFormat string
	initForce  bool
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the run configuration",
	Long: `Manage RUN_CONFIG.json, the single source of truth for a reproducible run.

Configuration discovery (first match wins):
1. --config path (relative paths resolve against the repo root)
2. <out>/RUN_CONFIG.json
3. Built-in fallback defaults (not reproducible)`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective run configuration",
	Long:  `Display the run configuration synth would use, and where it came from.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, out, err := resolveLocations()
		if err != nil {
			return err
		}

		loaded := config.Load(config.Discover(cfgFile, root, out))
		for _, w := range loaded.Warnings {
			logger.Warn(w)
		}

		if loaded.Reproducible() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", loaded.Path)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using fallback defaults)\n\n")
		}

		var data []byte
		switch strings.ToLower(showFormat) {
		case "yaml", "yml":
			data, err = yaml.Marshal(loaded.Config)
		case "json":
			data, err = config.Marshal(loaded.Config)
		default:
			return fmt.Errorf("unknown format %q (use yaml or json)", showFormat)
		}
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default RUN_CONFIG.json",
	Long:  `Create RUN_CONFIG.json in the output directory (or at --config) with every option set to its default.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, out, err := resolveLocations()
		if err != nil {
			return err
		}

		path := filepath.Join(out, config.DefaultFilename)
		if cfgFile != "" {
			path = config.Discover(cfgFile, root, "")
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config file already exists: %s\nUse 'specsynth config show' to view it, or pass --force to overwrite", path)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		cfg := config.Load("").Config
		cfg.Version = config.CurrentVersion
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "✓ Created default configuration: %s\n", path)
		fmt.Fprintf(w, "\nTo view the configuration:\n")
		fmt.Fprintf(w, "  specsynth config show\n")
		return nil
	},
}

// resolveLocations resolves the repo root and output directory from flags and env
func resolveLocations() (string, string, error) {
	wd, err := workDir()
	if err != nil {
		return "", "", err
	}
	root, err := config.ResolveRepoRoot(strings.TrimSpace(viper.GetString("repo_root")), wd)
	if err != nil {
		return "", "", err
	}
	out, err := config.ResolveOutput(root, viper.GetString("phase3_out"))
	if err != nil {
		return "", "", err
	}
	return root, out, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configShowCmd.Flags().StringVar(&showFormat, "format", "yaml", "output format (yaml, json)")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
