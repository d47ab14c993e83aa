package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/specsynth/internal/validate"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <spec-dir>",
	Short: "Validate a generated spec directory",
	Long: `Validate checks a spec directory before it is published:
- every canonical spec has Core Sources and Invariants sections and a MUST/SHALL/INV statement
- TRACEABILITY_MATRIX.csv has the required columns, no untraceable claims and no empty source paths
- RUN_CONFIG.json parses and max_core_sources_per_cluster is at least 5

Example:
  specsynth validate docs/spec`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		rep, err := validate.NewValidator(0).Validate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Validated %d canonical spec files\n", rep.SpecFiles)

		if !rep.Passed() {
			fmt.Fprintf(out, "\n❌ VALIDATION FAILED: %d errors found\n\n", len(rep.Errors))
			for _, e := range rep.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
			return fmt.Errorf("validation failed: %d errors found", len(rep.Errors))
		}

		fmt.Fprintln(out, "\n✅ VALIDATION PASSED: All specs valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
