package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/ankicode/pkg/models"
)

const reminderColumns = `id, problem_id, user_id, scheduled_for, created_from, status, meta, created_at, updated_at`

// ReminderRepository handles database operations for reminders
type ReminderRepository struct {
	q sqlx.ExtContext
}

// NewReminderRepository creates a new repository instance
func NewReminderRepository(q sqlx.ExtContext) *ReminderRepository {
	return &ReminderRepository{q: q}
}

// Create inserts a new reminder and fills in its ID and timestamps
func (r *ReminderRepository) Create(ctx context.Context, rem *models.Reminder) error {
	ts := now()
	query := `
		INSERT INTO reminders (
			problem_id, user_id, scheduled_for, created_from, status, meta, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if rem.Status == "" {
		rem.Status = models.ReminderPending
	}
	err := r.q.QueryRowxContext(ctx, r.q.Rebind(query),
		rem.ProblemID,
		rem.UserID,
		utc(rem.ScheduledFor),
		rem.CreatedFrom,
		rem.Status,
		rem.Meta,
		ts,
		ts,
	).Scan(&rem.ID)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	rem.CreatedAt = ts
	rem.UpdatedAt = ts
	return nil
}

// FindOwnedByID returns the reminder if it exists and belongs to userID, or nil
func (r *ReminderRepository) FindOwnedByID(ctx context.Context, id, userID int64) (*models.Reminder, error) {
	var rem models.Reminder
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = ? AND user_id = ?`
	err := sqlx.GetContext(ctx, r.q, &rem, r.q.Rebind(query), id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &rem, nil
}

// FindPendingDueBefore returns the user's pending reminders scheduled strictly
// before cutoff, oldest first
func (r *ReminderRepository) FindPendingDueBefore(ctx context.Context, userID int64, cutoff time.Time) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
		WHERE user_id = ? AND status = ? AND scheduled_for < ?
		ORDER BY scheduled_for ASC, id ASC`
	var reminders []models.Reminder
	err := sqlx.SelectContext(ctx, r.q, &reminders, r.q.Rebind(query), userID, models.ReminderPending, utc(cutoff))
	if err != nil {
		return nil, fmt.Errorf("failed to get due reminders: %w", err)
	}
	return reminders, nil
}

// FindPendingForProblem returns the pending reminders of one problem
func (r *ReminderRepository) FindPendingForProblem(ctx context.Context, problemID, userID int64) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
		WHERE problem_id = ? AND user_id = ? AND status = ?
		ORDER BY scheduled_for ASC, id ASC`
	var reminders []models.Reminder
	err := sqlx.SelectContext(ctx, r.q, &reminders, r.q.Rebind(query), problemID, userID, models.ReminderPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending reminders: %w", err)
	}
	return reminders, nil
}

// ListByUser returns the user's reminders, optionally filtered by status
func (r *ReminderRepository) ListByUser(ctx context.Context, userID int64, status models.ReminderStatus) ([]models.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY scheduled_for ASC, id ASC`

	var reminders []models.Reminder
	if err := sqlx.SelectContext(ctx, r.q, &reminders, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// UpdateStatus overwrites the status of a reminder owned by userID.
// It reports whether the reminder was found.
func (r *ReminderRepository) UpdateStatus(ctx context.Context, id, userID int64, status models.ReminderStatus) (bool, error) {
	query := `UPDATE reminders SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`
	result, err := r.q.ExecContext(ctx, r.q.Rebind(query), status, now(), id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to update reminder status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// RetirePending moves every pending reminder of the problem except keepID to sent
func (r *ReminderRepository) RetirePending(ctx context.Context, problemID, userID, keepID int64) (int64, error) {
	query := `UPDATE reminders SET status = ?, updated_at = ?
		WHERE problem_id = ? AND user_id = ? AND status = ? AND id <> ?`
	result, err := r.q.ExecContext(ctx, r.q.Rebind(query),
		models.ReminderSent, now(), problemID, userID, models.ReminderPending, keepID)
	if err != nil {
		return 0, fmt.Errorf("failed to retire pending reminders: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// MarkSent moves the listed reminders of userID from pending to sent.
// Reminders no longer pending are left untouched.
func (r *ReminderRepository) MarkSent(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`UPDATE reminders SET status = ?, updated_at = ?
		WHERE user_id = ? AND status = ? AND id IN (?)`,
		models.ReminderSent, now(), userID, models.ReminderPending, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build mark-sent query: %w", err)
	}
	result, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark reminders sent: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// DeleteByProblem removes every reminder of a problem
func (r *ReminderRepository) DeleteByProblem(ctx context.Context, problemID int64) (int64, error) {
	result, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM reminders WHERE problem_id = ?`), problemID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete reminders: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
