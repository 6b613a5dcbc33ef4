package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/pkg/models"
)

// allowedTransitions is enforced only in strict mode
var allowedTransitions = map[models.ReminderStatus][]models.ReminderStatus{
	models.ReminderPending:   {models.ReminderSent, models.ReminderSnoozed, models.ReminderCancelled},
	models.ReminderSnoozed:   {models.ReminderPending, models.ReminderCancelled},
	models.ReminderSent:      nil,
	models.ReminderCancelled: nil,
}

// CanTransition reports whether the strict status table allows from -> to.
// Writing the current status again is always allowed.
func CanTransition(from, to models.ReminderStatus) bool {
	if from == to {
		return true
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CreateManualReminder schedules a review at a user-chosen time. Existing
// pending reminders for the problem are left alone.
func (s *Service) CreateManualReminder(ctx context.Context, problemID, userID int64, scheduledFor time.Time) (*models.Reminder, error) {
	if scheduledFor.IsZero() {
		return nil, apperr.Validation("scheduled date is required")
	}

	repos := s.store.Repositories()
	problem, err := repos.Problems.FindOwnedByID(ctx, problemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	if problem == nil {
		return nil, apperr.NotFound("problem not found")
	}

	reminder := &models.Reminder{
		ProblemID:    problemID,
		UserID:       userID,
		ScheduledFor: scheduledFor,
		CreatedFrom:  models.FromManual,
		Status:       models.ReminderPending,
	}
	if err := repos.Reminders.Create(ctx, reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}

	s.log.Info("manual reminder created", "reminder_id", reminder.ID, "problem_id", problemID, "user_id", userID)
	return reminder, nil
}

// UpdateReminderStatus overwrites a reminder's status. Any status may be
// written unless StrictTransitions is set, in which case the table in
// CanTransition applies.
func (s *Service) UpdateReminderStatus(ctx context.Context, reminderID, userID int64, status models.ReminderStatus) (*models.Reminder, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status must be one of pending, sent, snoozed, cancelled")
	}

	var updated *models.Reminder
	err := s.store.Atomic(ctx, func(r Repositories) error {
		reminder, err := r.Reminders.FindOwnedByID(ctx, reminderID, userID)
		if err != nil {
			return err
		}
		if reminder == nil {
			return apperr.NotFound("reminder not found")
		}
		if s.opts.StrictTransitions && !CanTransition(reminder.Status, status) {
			return apperr.InvalidState("cannot change reminder from %s to %s", reminder.Status, status)
		}
		if reminder.Status != status {
			ok, err := r.Reminders.UpdateStatus(ctx, reminderID, userID, status)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.NotFound("reminder not found")
			}
		}
		updated, err = r.Reminders.FindOwnedByID(ctx, reminderID, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	return updated, nil
}

// ListReminders returns the user's reminders, optionally filtered by status
func (s *Service) ListReminders(ctx context.Context, userID int64, status models.ReminderStatus) ([]models.Reminder, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.Validation("status must be one of pending, sent, snoozed, cancelled")
	}
	reminders, err := s.store.Repositories().Reminders.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// MarkDelivered moves the listed reminders from pending to sent after a
// digest reached the user. Reminders no longer pending are skipped.
func (s *Service) MarkDelivered(ctx context.Context, userID int64, reminderIDs []int64) (int64, error) {
	if len(reminderIDs) == 0 {
		return 0, nil
	}
	n, err := s.store.Repositories().Reminders.MarkSent(ctx, userID, reminderIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to mark reminders delivered: %w", err)
	}
	return n, nil
}
