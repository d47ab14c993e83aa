package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/specsynth/internal/pipeline"
	"github.com/ppiankov/specsynth/internal/store"
)

var (
	inputsDir           string
	allowExternalOutput bool
	dbPath              string
	workers             int
)

// synthCmd represents the synth command
var synthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Generate canonical specs, traceability matrix and reports",
	Long: `Synth runs canonical spec synthesis:
- Load RUN_CONFIG.json and the upstream artifacts
- Score and select core sources for every cluster
- Extract MUST/SHALL and should-level claims from each source
- Render one canonical spec per cluster with a traceability annex
- Write ISA_MASTER_SPEC.md, TRACEABILITY_MATRIX.csv, CONFLICT_REGISTER.md and DEPRECATION_MAP.md

Locations (flag > environment > default):
  --repo-root  ISA_REPO_ROOT      nearest ancestor containing .git
  --inputs     ISA_PHASE3_INPUTS  parent of input_artifacts.document_index
  --out        ISA_PHASE3_OUT     docs/spec

Example:
  specsynth synth --inputs isa-archive/phase2 --config docs/spec/RUN_CONFIG.json
  specsynth synth --inputs artifacts --out /tmp/spec --allow-external-output
  specsynth synth --inputs artifacts --db .specsynth/trace.db`,
	Args: cobra.NoArgs,
	RunE: runSynth,
}

func init() {
	rootCmd.AddCommand(synthCmd)

	synthCmd.Flags().StringVar(&inputsDir, "inputs", "", "directory with document_index.json, cluster_map.json and authority_candidates.json")
	synthCmd.Flags().BoolVar(&allowExternalOutput, "allow-external-output", false, "allow an output directory outside the repo root")
	synthCmd.Flags().StringVar(&dbPath, "db", "", "record the run and its traceability rows in this SQLite database")
	synthCmd.Flags().IntVar(&workers, "workers", 4, "concurrent source document reads")

	_ = viper.BindPFlag("phase3_inputs", synthCmd.Flags().Lookup("inputs"))
	_ = viper.BindPFlag("db", synthCmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("workers", synthCmd.Flags().Lookup("workers"))
}

func runSynth(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	wd, err := workDir()
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		WorkDir:             wd,
		RepoRoot:            strings.TrimSpace(viper.GetString("repo_root")),
		Inputs:              viper.GetString("phase3_inputs"),
		Out:                 viper.GetString("phase3_out"),
		Config:              cfgFile,
		AllowExternalOutput: allowExternalOutput,
	}

	plan, err := pipeline.Prepare(opts, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Repository root: %s\n", plan.RepoRoot)
	if plan.Config.Reproducible() {
		fmt.Fprintf(out, "Config: %s\n", plan.Config.Path)
	} else {
		fmt.Fprintln(out, "Config: FALLBACK defaults (not reproducible)")
	}
	fmt.Fprintf(out, "Inputs path: %s\n", plan.InputsDir)
	fmt.Fprintf(out, "Output path: %s\n", plan.OutDir)
	fmt.Fprintf(out, "Found %d clusters, %d documents\n", len(plan.Artifacts.Clusters), plan.Artifacts.Documents.Len())

	res, err := pipeline.NewPipeline(logger, out, viper.GetInt("workers")).Run(ctx, plan)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	if _, err := pipeline.Write(plan.OutDir, res, out); err != nil {
		return err
	}

	if path := viper.GetString("db"); path != "" {
		if err := recordRun(ctx, path, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "  Recorded run %s in %s\n", res.Meta.RunID, path)
	}

	bar := strings.Repeat("=", 60)
	fmt.Fprintf(out, "\n%s\n", bar)
	fmt.Fprintln(out, "Synthesis complete!")
	fmt.Fprintf(out, "  Canonical specs: %d\n", len(res.Clusters))
	fmt.Fprintf(out, "  Traced claims: %d\n", len(res.Rows))
	fmt.Fprintf(out, "  Conflicts: %d\n", len(res.Conflicts))
	if res.ReadFailures > 0 {
		fmt.Fprintf(out, "  Unreadable sources: %d\n", res.ReadFailures)
	}
	fmt.Fprintf(out, "  Output: %s\n", plan.OutDir)
	fmt.Fprintln(out, bar)

	return nil
}

func recordRun(ctx context.Context, path string, res *pipeline.Result) error {
	s, err := store.Open(path, logger)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	run := store.Run{
		ID:           res.Meta.RunID,
		GeneratedAt:  res.Meta.GeneratedAt,
		ConfigMode:   res.Meta.Mode,
		ClusterCount: len(res.Clusters),
		ClaimCount:   len(res.Rows),
	}
	if err := s.SaveRun(ctx, run, res.Rows); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
