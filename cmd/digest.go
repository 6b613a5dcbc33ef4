package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/ankicode/internal/digest"
)

var digestDryRun bool

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send the review digest to every opted-in user once",
	Long: `Send the review digest to every opted-in user once. Reminders included
in a delivered digest are marked as sent. Run it from cron, or use
'ankicode schedule' to keep it running daily.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := current.digestRunner(digestDryRun)
		if err != nil {
			return err
		}
		report, err := runner.Run(cmd.Context())
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func printReport(out io.Writer, r *digest.Report) {
	fmt.Fprintf(out, "📬 Digest run %s finished in %s\n", r.RunID, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(out, "   Users:     %d\n", r.Users)
	fmt.Fprintf(out, "   Sent:      %d\n", r.Sent)
	fmt.Fprintf(out, "   Empty:     %d\n", r.Empty)
	fmt.Fprintf(out, "   Skipped:   %d\n", r.Skipped)
	fmt.Fprintf(out, "   Failed:    %d\n", r.Failed)
	if r.DryRun {
		fmt.Fprintln(out, "   Reminders: left pending (dry run)")
		return
	}
	fmt.Fprintf(out, "   Reminders: %d marked sent\n", r.RemindersMarked)
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().BoolVar(&digestDryRun, "dry-run", false, "Log digests instead of sending them")
}
