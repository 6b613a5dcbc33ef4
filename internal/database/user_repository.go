package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/ankicode/pkg/models"
)

const userColumns = `id, name, email, notification_email, telegram_chat_id, notify_opt_in, skip_weekends, created_at, updated_at`

// UserRepository handles database operations for users
type UserRepository struct {
	q sqlx.ExtContext
}

// NewUserRepository creates a new repository instance
func NewUserRepository(q sqlx.ExtContext) *UserRepository {
	return &UserRepository{q: q}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	ts := now()
	query := `
		INSERT INTO users (
			name, email, notification_email, telegram_chat_id, notify_opt_in, skip_weekends,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.q.QueryRowxContext(ctx, r.q.Rebind(query),
		u.Name,
		u.Email,
		u.NotificationEmail,
		u.TelegramChatID,
		u.NotifyOptIn,
		u.SkipWeekends,
		ts,
		ts,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.CreatedAt = ts
	u.UpdatedAt = ts
	return nil
}

// GetByID returns a user by ID, or nil if there is none
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	err := sqlx.GetContext(ctx, r.q, &u, r.q.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &u, nil
}

// Update saves the user's profile and settings
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	ts := now()
	query := `
		UPDATE users SET
			name = ?,
			notification_email = ?,
			telegram_chat_id = ?,
			notify_opt_in = ?,
			skip_weekends = ?,
			updated_at = ?
		WHERE id = ?
	`
	result, err := r.q.ExecContext(ctx, r.q.Rebind(query),
		u.Name,
		u.NotificationEmail,
		u.TelegramChatID,
		u.NotifyOptIn,
		u.SkipWeekends,
		ts,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", u.ID)
	}
	u.UpdatedAt = ts
	return nil
}

// GetUsersForNotification returns users who opted in to digests
func (r *UserRepository) GetUsersForNotification(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE notify_opt_in = ? ORDER BY id ASC`
	var users []models.User
	if err := sqlx.SelectContext(ctx, r.q, &users, r.q.Rebind(query), true); err != nil {
		return nil, fmt.Errorf("failed to get users for notification: %w", err)
	}
	return users, nil
}
