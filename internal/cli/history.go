package cli

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specsynth/internal/store"
)

var (
	historyDB     string
	historySource string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show runs recorded with synth --db",
	Long: `History reads a traceability database written by synth --db.

It prints the latest run with its claim count per canonical spec. With
--source it also lists how many claims each recorded run traced to that
document.

Example:
  specsynth history --db .specsynth/trace.db
  specsynth history --db .specsynth/trace.db --source docs/gates.md`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDB, "db", "", "traceability database written by synth --db")
	historyCmd.Flags().StringVar(&historySource, "source", "", "source document to trace across runs")
	_ = historyCmd.MarkFlagRequired("db")
}

func runHistory(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	if _, err := os.Stat(historyDB); err != nil {
		return fmt.Errorf("database not found: %s", historyDB)
	}

	s, err := store.Open(historyDB, logger)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	fmt.Fprintf(out, "Database: %s\n", s.Path())

	run, err := s.LatestRun(ctx)
	if err != nil {
		return err
	}
	if run == nil {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	fmt.Fprintf(out, "Latest run: %s\n", run.ID)
	fmt.Fprintf(out, "  Generated: %s\n", run.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "  Config mode: %s\n", run.ConfigMode)
	fmt.Fprintf(out, "  Clusters: %d\n", run.ClusterCount)
	fmt.Fprintf(out, "  Claims: %d\n", run.ClaimCount)

	rows, err := s.Rows(ctx, run.ID)
	if err != nil {
		return err
	}
	perSpec := make(map[string]int)
	var specs []string
	for _, r := range rows {
		if perSpec[r.CanonicalSpec] == 0 {
			specs = append(specs, r.CanonicalSpec)
		}
		perSpec[r.CanonicalSpec]++
	}
	fmt.Fprintln(out, "\nClaims by canonical spec:")
	for _, spec := range specs {
		fmt.Fprintf(out, "  %s: %d\n", spec, perSpec[spec])
	}

	if historySource == "" {
		return nil
	}

	history, err := s.SourceHistory(ctx, historySource)
	if err != nil {
		return err
	}
	runIDs := make([]string, 0, len(history))
	for id := range history {
		runIDs = append(runIDs, id)
	}
	sort.Strings(runIDs)

	fmt.Fprintf(out, "\nHistory of %s:\n", historySource)
	if len(runIDs) == 0 {
		fmt.Fprintln(out, "  no claims recorded")
	}
	for _, id := range runIDs {
		fmt.Fprintf(out, "  %s: %d claims\n", id, history[id])
	}
	return nil
}
