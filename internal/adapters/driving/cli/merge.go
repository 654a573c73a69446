package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/curata-cli/internal/adapters/driven/dataset/csvfile"
	"github.com/custodia-labs/curata-cli/internal/core/ports/driving"
	"github.com/custodia-labs/curata-cli/internal/loaders/tabular"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [rule-based-file] [text-based-file]",
	Short: "Merge rule-based and text-based extraction outputs",
	Long: `Standardises the headers of two extraction output tables, concatenates
them, and writes the combined table as CSV. Text-based columns are mapped
onto the rule-based names and a MATCH_TYPE column records each row's
origin.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

// merge flags.
var (
	mergeOutput         string
	mergeDropDuplicates bool
)

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Output CSV path (required)")
	mergeCmd.Flags().BoolVar(&mergeDropDuplicates, "drop-duplicates", false, "Remove exact-duplicate rows")

	_ = mergeCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	if mergerService == nil {
		return errors.New("merger not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	first, err := tabular.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	second, err := tabular.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}

	merged, err := mergerService.Merge(ctx, first, second, driving.MergeOptions{
		DropDuplicates: mergeDropDuplicates,
	})
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if err := csvfile.WriteTable(mergeOutput, merged); err != nil {
		return fmt.Errorf("writing %s: %w", mergeOutput, err)
	}

	cmd.Printf("Merged %d + %d rows -> %s (%d rows)\n",
		len(first.Rows), len(second.Rows), mergeOutput, len(merged.Rows))
	return nil
}
