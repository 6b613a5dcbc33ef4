package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/internal/tracker"
	"github.com/example/ankicode/pkg/models"
)

var (
	problemDeadline string
	problemNotes    string
	problemStatus   string
)

var problemCmd = &cobra.Command{
	Use:     "problem",
	Aliases: []string{"p"},
	Short:   "Manage the problems in your plan",
}

var problemAddCmd = &cobra.Command{
	Use:   "add [leetcode-number]",
	Short: "Add a LeetCode problem to your plan",
	Long: `Add a LeetCode problem by its number. Title, difficulty and tags are
fetched from LeetCode once.

Examples:
  ankicode problem add -U 1 1 --deadline 2024-01-05
  ankicode problem add -U 1 206 --notes "iterative and recursive"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		number, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
		if err != nil {
			return apperr.Validation("invalid leetcode number %q", args[0])
		}
		loc := current.cfg.Location
		deadline, err := parseWhen(problemDeadline, time.Now(), loc)
		if err != nil {
			return err
		}

		p, err := current.svc.AddProblem(cmd.Context(), id, tracker.NewProblem{
			LeetcodeID: number,
			Deadline:   deadline,
			Notes:      problemNotes,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added #%d %s (%s), deadline %s [id %d]\n",
			p.LeetcodeID, p.Name, p.Difficulty, p.Deadline.In(loc).Format(dateFormat), p.ID)
		return nil
	},
}

var problemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your problems by deadline",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		problems, err := current.svc.ListProblems(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No problems yet. Add one with 'ankicode problem add'.")
			return nil
		}
		printProblems(cmd.OutOrStdout(), problems, current.cfg.Location)
		return nil
	},
}

var problemShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a problem with its practice history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		problemID, err := parseID(args[0], "problem")
		if err != nil {
			return err
		}
		p, err := current.svc.GetProblem(cmd.Context(), problemID, id)
		if err != nil {
			return err
		}
		printProblem(cmd.OutOrStdout(), p, current.cfg.Location)
		return nil
	},
}

var problemEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit notes, status or deadline",
	Long: `Edit a problem. Only the flags given are changed. Setting the status
to done is the only way to retire a problem from reviews.

Examples:
  ankicode problem edit -U 1 3 --status done
  ankicode problem edit -U 1 3 --deadline 2024-02-01 --notes "two pointers"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		problemID, err := parseID(args[0], "problem")
		if err != nil {
			return err
		}

		var ch tracker.ProblemChanges
		flags := cmd.Flags()
		if flags.Changed("notes") {
			ch.Notes = &problemNotes
		}
		if flags.Changed("status") {
			st := models.ProblemStatus(strings.ToLower(problemStatus))
			ch.Status = &st
		}
		if flags.Changed("deadline") {
			d, err := parseWhen(problemDeadline, time.Now(), current.cfg.Location)
			if err != nil {
				return err
			}
			ch.Deadline = &d
		}

		p, err := current.svc.UpdateProblem(cmd.Context(), problemID, id, ch)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔄 Updated #%d %s (status: %s)\n", p.LeetcodeID, p.Name, p.Status)
		return nil
	},
}

var problemDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a problem and all its reminders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireUser()
		if err != nil {
			return err
		}
		problemID, err := parseID(args[0], "problem")
		if err != nil {
			return err
		}
		if err := current.svc.DeleteProblem(cmd.Context(), problemID, id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️ Deleted problem %d\n", problemID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(problemCmd)
	problemCmd.AddCommand(problemAddCmd, problemListCmd, problemShowCmd, problemEditCmd, problemDeleteCmd)

	problemAddCmd.Flags().StringVarP(&problemDeadline, "deadline", "d", "today", "First attempt date (YYYY-MM-DD)")
	problemAddCmd.Flags().StringVarP(&problemNotes, "notes", "n", "", "Notes about the problem")

	problemEditCmd.Flags().StringVarP(&problemDeadline, "deadline", "d", "", "New deadline (YYYY-MM-DD)")
	problemEditCmd.Flags().StringVarP(&problemNotes, "notes", "n", "", "Replace the notes")
	problemEditCmd.Flags().StringVarP(&problemStatus, "status", "s", "", "todo, in_progress or done")
}
