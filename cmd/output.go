package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/example/ankicode/pkg/models"
)

const (
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04"
)

func printProblems(out io.Writer, problems []models.Problem, loc *time.Location) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLeetCode\tProblem\tDiff\tStatus\tDeadline\tLast Practiced")
	fmt.Fprintln(w, "--\t--------\t-------\t----\t------\t--------\t--------------")
	for _, p := range problems {
		last := "-"
		if p.LastPracticedAt != nil {
			last = p.LastPracticedAt.In(loc).Format(dateTimeFormat)
		}
		fmt.Fprintf(w, "%d\t#%d\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.LeetcodeID, p.Name, p.Difficulty, p.Status, p.Deadline.In(loc).Format(dateFormat), last)
	}
	w.Flush()
}

func printProblem(out io.Writer, p *models.Problem, loc *time.Location) {
	fmt.Fprintf(out, "#%d %s (%s)\n", p.LeetcodeID, p.Name, p.Difficulty)
	fmt.Fprintf(out, "  ID:        %d\n", p.ID)
	fmt.Fprintf(out, "  Link:      %s\n", p.URL())
	fmt.Fprintf(out, "  Status:    %s\n", p.Status)
	fmt.Fprintf(out, "  Deadline:  %s\n", p.Deadline.In(loc).Format(dateFormat))
	if len(p.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:      %s\n", strings.Join(p.Tags, ", "))
	}
	if p.Notes != "" {
		fmt.Fprintf(out, "  Notes:     %s\n", p.Notes)
	}
	if len(p.ConfidenceHistory) > 0 {
		fmt.Fprintln(out, "  History:")
		for _, e := range p.ConfidenceHistory {
			fmt.Fprintf(out, "    %s  %s\n", e.Date.In(loc).Format(dateTimeFormat), e.Level)
		}
	}
}

func printReminders(out io.Writer, reminders []models.Reminder, loc *time.Location) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tProblem\tScheduled For\tStatus\tFrom\tConfidence")
	fmt.Fprintln(w, "--\t-------\t-------------\t------\t----\t----------")
	for _, r := range reminders {
		conf := string(r.Meta.Confidence)
		if conf == "" {
			conf = "-"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.ProblemID, r.ScheduledFor.In(loc).Format(dateTimeFormat), r.Status, r.CreatedFrom, conf)
	}
	w.Flush()
}

func printReviewItems(out io.Writer, items []models.ReviewItem, loc *time.Location) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLeetCode\tProblem\tDiff\tDue\tReminder")
	fmt.Fprintln(w, "--\t--------\t-------\t----\t---\t--------")
	for _, it := range items {
		due := "first attempt"
		reminder := "-"
		if it.Reminder != nil {
			due = it.Reminder.ScheduledFor.In(loc).Format(dateTimeFormat)
			reminder = fmt.Sprintf("%d", it.Reminder.ID)
		}
		fmt.Fprintf(w, "%d\t#%d\t%s\t%s\t%s\t%s\n",
			it.Problem.ID, it.Problem.LeetcodeID, it.Problem.Name, it.Problem.Difficulty, due, reminder)
	}
	w.Flush()
}
