package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var todayDate string

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show what to review today",
	Long: `Show the problems due for review today: pending reminders up to the
end of the day first, then problems whose first attempt is today.

Examples:
  ankicode today -U 1
  ankicode today -U 1 --date 2024-01-06`,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		asOf := time.Now().In(current.cfg.Location)
		if todayDate != "" {
			if asOf, err = parseWhen(todayDate, asOf, current.cfg.Location); err != nil {
				return err
			}
		}

		items, err := current.svc.TodayReviewSet(cmd.Context(), id, asOf)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintf(out, "🎉 Nothing to review on %s\n", asOf.Format(dateFormat))
			return nil
		}
		fmt.Fprintf(out, "📚 %d problem(s) to review on %s\n\n", len(items), asOf.Format(dateFormat))
		printReviewItems(out, items, current.cfg.Location)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Day to show instead of today (YYYY-MM-DD)")
}
