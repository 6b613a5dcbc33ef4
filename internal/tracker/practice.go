package tracker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/internal/spaced_repetition"
	"github.com/example/ankicode/pkg/models"
)

// PracticeLog is one completed practice session
type PracticeLog struct {
	ProblemID  int64
	UserID     int64
	Confidence models.Confidence
	// CompletedAt is taken as given; a zero value means now
	CompletedAt time.Time
	DurationSec *int
}

// PracticeResult is the outcome of LogPractice
type PracticeResult struct {
	Problem  *models.Problem
	Reminder *models.Reminder
	// Retired counts the older pending reminders moved to sent
	Retired int64
}

// LogPractice records a practice session and schedules the next review.
//
// The problem update, the new reminder and the retirement of older pending
// reminders commit together or not at all, and concurrent logs for the same
// problem are serialized so that exactly one reminder stays pending.
func (s *Service) LogPractice(ctx context.Context, in PracticeLog) (*PracticeResult, error) {
	if !in.Confidence.Valid() {
		return nil, apperr.Validation("confidence must be one of hard, medium, easy")
	}
	if in.DurationSec != nil && *in.DurationSec < 0 {
		return nil, apperr.Validation("duration must not be negative")
	}
	completedAt := in.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}
	completedAt = completedAt.In(s.opts.Location)

	unlock := s.locks.Lock(lockKey{problemID: in.ProblemID, userID: in.UserID})
	defer unlock()

	var result PracticeResult
	err := s.store.Atomic(ctx, func(r Repositories) error {
		problem, err := r.Problems.FindOwnedByIDForUpdate(ctx, in.ProblemID, in.UserID)
		if err != nil {
			return err
		}
		if problem == nil {
			return apperr.NotFound("problem not found")
		}
		if problem.Status == models.ProblemDone {
			return apperr.InvalidState("problem is already marked as done")
		}

		user, err := r.Users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound("user not found")
		}

		problem.LastPracticedAt = &completedAt
		problem.ConfidenceHistory = appendEntry(problem.ConfidenceHistory, models.ConfidenceEntry{
			Date:  completedAt,
			Level: in.Confidence,
		})
		if problem.Status == models.ProblemTodo {
			problem.Status = models.ProblemInProgress
		}
		if err := r.Problems.Update(ctx, problem); err != nil {
			return err
		}

		next := spaced_repetition.NextReviewDate(in.Confidence, completedAt, problem.ConfidenceHistory, user.SkipWeekends)
		reminder := &models.Reminder{
			ProblemID:    problem.ID,
			UserID:       user.ID,
			ScheduledFor: next,
			CreatedFrom:  models.FromPractice,
			Status:       models.ReminderPending,
			Meta: models.ReminderMeta{
				Confidence:  in.Confidence,
				DurationSec: in.DurationSec,
			},
		}
		if err := r.Reminders.Create(ctx, reminder); err != nil {
			return err
		}

		retired, err := r.Reminders.RetirePending(ctx, problem.ID, user.ID, reminder.ID)
		if err != nil {
			return err
		}

		result = PracticeResult{Problem: problem, Reminder: reminder, Retired: retired}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log practice: %w", err)
	}

	s.log.Info("practice logged",
		"problem_id", in.ProblemID,
		"user_id", in.UserID,
		"confidence", in.Confidence,
		"next_review", result.Reminder.ScheduledFor.Format(time.RFC3339),
		"retired", result.Retired,
	)
	return &result, nil
}

// appendEntry adds e keeping the history ordered by date. A backdated
// session lands in its chronological place.
func appendEntry(h models.ConfidenceHistory, e models.ConfidenceEntry) models.ConfidenceHistory {
	h = append(h, e)
	sort.SliceStable(h, func(i, j int) bool { return h[i].Date.Before(h[j].Date) })
	return h
}
