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

const problemColumns = `id, owner_id, leetcode_id, title_slug, name, difficulty, notes, tags,
	deadline, status, last_practiced_at, confidence_history, created_at, updated_at`

// ProblemRepository handles database operations for problems.
// q is either the database handle or a transaction.
type ProblemRepository struct {
	q sqlx.ExtContext
}

// NewProblemRepository creates a new repository instance
func NewProblemRepository(q sqlx.ExtContext) *ProblemRepository {
	return &ProblemRepository{q: q}
}

// FindByID returns a problem regardless of owner, or nil if it doesn't exist
func (r *ProblemRepository) FindByID(ctx context.Context, id int64) (*models.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// FindOwnedByID returns the problem if it exists and belongs to userID, or nil
func (r *ProblemRepository) FindOwnedByID(ctx context.Context, id, userID int64) (*models.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = ? AND owner_id = ?`
	return r.getOne(ctx, query, id, userID)
}

// FindOwnedByIDForUpdate is FindOwnedByID that also row-locks the problem
// until the surrounding transaction ends. SQLite has a single writer and
// needs no row lock.
func (r *ProblemRepository) FindOwnedByIDForUpdate(ctx context.Context, id, userID int64) (*models.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE id = ? AND owner_id = ?`
	if r.q.DriverName() == "postgres" {
		query += ` FOR UPDATE`
	}
	return r.getOne(ctx, query, id, userID)
}

// FindByLeetcodeID returns the user's problem for a LeetCode number, or nil
func (r *ProblemRepository) FindByLeetcodeID(ctx context.Context, userID int64, leetcodeID int) (*models.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE owner_id = ? AND leetcode_id = ?`
	return r.getOne(ctx, query, userID, leetcodeID)
}

// ListByOwner returns all problems of a user ordered by deadline
func (r *ProblemRepository) ListByOwner(ctx context.Context, userID int64) ([]models.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE owner_id = ? ORDER BY deadline ASC, id ASC`
	var problems []models.Problem
	if err := sqlx.SelectContext(ctx, r.q, &problems, r.q.Rebind(query), userID); err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

// ListDueFirstTime returns problems never practiced and not done whose
// deadline falls in [windowStart, windowEnd)
func (r *ProblemRepository) ListDueFirstTime(ctx context.Context, userID int64, windowStart, windowEnd time.Time) ([]models.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems
		WHERE owner_id = ?
		AND deadline >= ? AND deadline < ?
		AND status <> ?
		AND last_practiced_at IS NULL
		ORDER BY deadline ASC, id ASC`
	var problems []models.Problem
	err := sqlx.SelectContext(ctx, r.q, &problems, r.q.Rebind(query),
		userID, utc(windowStart), utc(windowEnd), models.ProblemDone)
	if err != nil {
		return nil, fmt.Errorf("failed to list first-time problems: %w", err)
	}
	return problems, nil
}

// ListByIDs returns the problems with the given ids
func (r *ProblemRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Problem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT `+problemColumns+` FROM problems WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build problem query: %w", err)
	}
	var problems []models.Problem
	if err := sqlx.SelectContext(ctx, r.q, &problems, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

// Create inserts a new problem and fills in its ID and timestamps
func (r *ProblemRepository) Create(ctx context.Context, p *models.Problem) error {
	ts := now()
	query := `
		INSERT INTO problems (
			owner_id, leetcode_id, title_slug, name, difficulty, notes, tags,
			deadline, status, last_practiced_at, confidence_history, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if p.Status == "" {
		p.Status = models.ProblemTodo
	}
	err := r.q.QueryRowxContext(ctx, r.q.Rebind(query),
		p.OwnerID,
		p.LeetcodeID,
		p.TitleSlug,
		p.Name,
		p.Difficulty,
		p.Notes,
		p.Tags,
		utc(p.Deadline),
		p.Status,
		utcPtr(p.LastPracticedAt),
		p.ConfidenceHistory,
		ts,
		ts,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create problem: %w", err)
	}
	p.CreatedAt = ts
	p.UpdatedAt = ts
	return nil
}

// Update saves the mutable fields of a problem owned by p.OwnerID
func (r *ProblemRepository) Update(ctx context.Context, p *models.Problem) error {
	ts := now()
	query := `
		UPDATE problems SET
			notes = ?,
			tags = ?,
			deadline = ?,
			status = ?,
			last_practiced_at = ?,
			confidence_history = ?,
			updated_at = ?
		WHERE id = ? AND owner_id = ?
	`
	result, err := r.q.ExecContext(ctx, r.q.Rebind(query),
		p.Notes,
		p.Tags,
		utc(p.Deadline),
		p.Status,
		utcPtr(p.LastPracticedAt),
		p.ConfidenceHistory,
		ts,
		p.ID,
		p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update problem: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("problem not found or user doesn't have permission")
	}
	p.UpdatedAt = ts
	return nil
}

// Delete removes a problem owned by userID. It reports whether a row was deleted.
// Reminders must be removed first (see ReminderRepository.DeleteByProblem).
func (r *ProblemRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM problems WHERE id = ? AND owner_id = ?`), id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete problem: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *ProblemRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Problem, error) {
	var p models.Problem
	err := sqlx.GetContext(ctx, r.q, &p, r.q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	return &p, nil
}
