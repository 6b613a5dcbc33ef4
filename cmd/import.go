package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/ankicode/internal/excel"
)

var (
	importSheet    string
	importStartRow int
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import problems from an .xlsx or .csv file",
	Long: `Import problems from a spreadsheet. Columns are A: LeetCode number,
B: deadline, C: notes. Problems already in your list are skipped.

Examples:
  ankicode import -U 1 blind75.xlsx
  ankicode import -U 1 plan.csv --start-row 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}

		cfg := excel.DefaultImportConfig()
		cfg.FilePath = args[0]
		cfg.SheetName = importSheet
		cfg.StartRow = importStartRow
		cfg.Location = current.cfg.Location

		result, err := excel.ImportProblems(cmd.Context(), current.svc, id, cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "📥 Processed %d row(s): %d added, %d already present, %d failed\n",
			result.TotalProcessed, result.Created, result.Skipped, len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "   ⚠️ %s\n", e)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importSheet, "sheet", "", "Sheet to import (default: the active sheet)")
	importCmd.Flags().IntVar(&importStartRow, "start-row", 2, "First row to import (1-based)")
}
