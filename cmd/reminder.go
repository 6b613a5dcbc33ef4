package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/pkg/models"
)

var reminderStatus string

var reminderCmd = &cobra.Command{
	Use:     "reminder",
	Aliases: []string{"r"},
	Short:   "Manage review reminders",
}

var reminderAddCmd = &cobra.Command{
	Use:   "add [problem-id] [when]",
	Short: "Schedule a manual reminder",
	Long: `Schedule an extra review for a problem. Manual reminders never replace
the ones created by practice.

Examples:
  ankicode reminder add -U 1 3 tomorrow
  ankicode reminder add -U 1 3 "2024-01-10 08:00"`,
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
		loc := current.cfg.Location
		when, err := parseWhen(args[1], time.Now(), loc)
		if err != nil {
			return err
		}
		r, err := current.svc.CreateManualReminder(cmd.Context(), problemID, id, when)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "⏰ Reminder %d set for %s\n", r.ID, r.ScheduledFor.In(loc).Format(dateTimeFormat))
		return nil
	},
}

var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders by scheduled time",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		status := models.ReminderStatus(strings.ToLower(reminderStatus))
		if status != "" && !status.Valid() {
			return apperr.Validation("invalid reminder status %q", reminderStatus)
		}
		reminders, err := current.svc.ListReminders(cmd.Context(), id, status)
		if err != nil {
			return err
		}
		if len(reminders) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reminders.")
			return nil
		}
		printReminders(cmd.OutOrStdout(), reminders, current.cfg.Location)
		return nil
	},
}

var reminderStatusCmd = &cobra.Command{
	Use:   "status [id] [pending|sent|snoozed|cancelled]",
	Short: "Change a reminder's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		reminderID, err := parseID(args[0], "reminder")
		if err != nil {
			return err
		}
		r, err := current.svc.UpdateReminderStatus(cmd.Context(), reminderID, id, models.ReminderStatus(strings.ToLower(args[1])))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔄 Reminder %d is now %s\n", r.ID, r.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reminderCmd)
	reminderCmd.AddCommand(reminderAddCmd, reminderListCmd, reminderStatusCmd)

	reminderListCmd.Flags().StringVarP(&reminderStatus, "status", "s", "", "Only show reminders with this status")
}
