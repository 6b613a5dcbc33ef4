package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/ankicode/internal/spaced_repetition"
	"github.com/example/ankicode/internal/tracker"
)

var (
	practiceAt       string
	practiceDuration time.Duration
)

var practiceCmd = &cobra.Command{
	Use:   "practice [problem-id] [hard|medium|easy]",
	Short: "Log a practice session and schedule the next review",
	Long: `Log a practice session with how it felt. The next review is scheduled
from your confidence and history, and older pending reminders for the
problem are retired.

Examples:
  ankicode practice -U 1 3 easy
  ankicode practice -U 1 3 hard --duration 35m
  ankicode practice -U 1 3 medium --at "2024-01-05 21:30"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		problemID, err := parseID(args[0], "problem")
		if err != nil {
			return err
		}
		confidence, err := spaced_repetition.ParseConfidence(args[1])
		if err != nil {
			return err
		}
		loc := current.cfg.Location
		completedAt, err := parseWhen(practiceAt, time.Now(), loc)
		if err != nil {
			return err
		}

		in := tracker.PracticeLog{
			ProblemID:   problemID,
			UserID:      id,
			Confidence:  confidence,
			CompletedAt: completedAt,
		}
		if practiceDuration > 0 {
			sec := int(practiceDuration.Seconds())
			in.DurationSec = &sec
		}

		res, err := current.svc.LogPractice(cmd.Context(), in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Logged %s practice of #%d %s\n", confidence, res.Problem.LeetcodeID, res.Problem.Name)
		fmt.Fprintf(out, "📅 Next review: %s\n", res.Reminder.ScheduledFor.In(loc).Format(dateTimeFormat))
		if res.Retired > 0 {
			fmt.Fprintf(out, "   (%d older reminder(s) retired)\n", res.Retired)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)
	practiceCmd.Flags().StringVar(&practiceAt, "at", "now", "When the session finished")
	practiceCmd.Flags().DurationVar(&practiceDuration, "duration", 0, "How long the session took (e.g. 25m)")
}
