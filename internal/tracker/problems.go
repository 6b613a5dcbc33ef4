package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/internal/database"
	"github.com/example/ankicode/pkg/models"
)

// NewProblem is what a user supplies to add a problem to their plan
type NewProblem struct {
	LeetcodeID int
	Deadline   time.Time
	Notes      string
}

// ProblemChanges holds the editable fields; nil means unchanged
type ProblemChanges struct {
	Notes    *string
	Status   *models.ProblemStatus
	Deadline *time.Time
}

// AddProblem fetches the problem's metadata and stores it for the user.
// Nothing is stored when the lookup fails.
func (s *Service) AddProblem(ctx context.Context, userID int64, in NewProblem) (*models.Problem, error) {
	if in.LeetcodeID <= 0 {
		return nil, apperr.Validation("leetcode id must be a positive number")
	}
	if in.Deadline.IsZero() {
		return nil, apperr.Validation("deadline is required")
	}

	repos := s.store.Repositories()
	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to add problem: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	existing, err := repos.Problems.FindByLeetcodeID(ctx, userID, in.LeetcodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to add problem: %w", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindDuplicate, "problem %d is already in your list", in.LeetcodeID)
	}

	meta, err := s.lookup.FetchProblem(ctx, in.LeetcodeID)
	if err != nil {
		s.log.Warn("leetcode lookup failed", "leetcode_id", in.LeetcodeID, "error", err)
		return nil, fmt.Errorf("failed to fetch problem %d: %w", in.LeetcodeID, err)
	}
	if meta.Title == "" || meta.TitleSlug == "" || meta.Difficulty == "" {
		return nil, apperr.New(apperr.KindUpstreamUnavailable, "incomplete metadata for problem %d", in.LeetcodeID)
	}

	problem := &models.Problem{
		OwnerID:    userID,
		LeetcodeID: in.LeetcodeID,
		TitleSlug:  meta.TitleSlug,
		Name:       meta.Title,
		Difficulty: meta.Difficulty,
		Notes:      strings.TrimSpace(in.Notes),
		Tags:       models.Tags(meta.Tags),
		Deadline:   in.Deadline,
		Status:     models.ProblemTodo,
	}
	if err := repos.Problems.Create(ctx, problem); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.KindDuplicate, err, "problem %d is already in your list", in.LeetcodeID)
		}
		return nil, fmt.Errorf("failed to add problem: %w", err)
	}

	s.log.Info("problem added", "problem_id", problem.ID, "leetcode_id", problem.LeetcodeID, "user_id", userID)
	return problem, nil
}

// GetProblem returns one of the user's problems
func (s *Service) GetProblem(ctx context.Context, problemID, userID int64) (*models.Problem, error) {
	problem, err := s.store.Repositories().Problems.FindOwnedByID(ctx, problemID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get problem: %w", err)
	}
	if problem == nil {
		return nil, apperr.NotFound("problem not found")
	}
	return problem, nil
}

// ListProblems returns the user's problems ordered by deadline
func (s *Service) ListProblems(ctx context.Context, userID int64) ([]models.Problem, error) {
	problems, err := s.store.Repositories().Problems.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

// UpdateProblem applies manual edits. This is the only way a problem
// becomes done; marking it done cancels its pending reminders.
func (s *Service) UpdateProblem(ctx context.Context, problemID, userID int64, ch ProblemChanges) (*models.Problem, error) {
	if ch.Status != nil && !ch.Status.Valid() {
		return nil, apperr.Validation("status must be one of todo, in_progress, done")
	}
	if ch.Deadline != nil && ch.Deadline.IsZero() {
		return nil, apperr.Validation("deadline is required")
	}

	unlock := s.locks.Lock(lockKey{problemID: problemID, userID: userID})
	defer unlock()

	var problem *models.Problem
	var cancelled int
	err := s.store.Atomic(ctx, func(r Repositories) error {
		var err error
		problem, err = r.Problems.FindOwnedByIDForUpdate(ctx, problemID, userID)
		if err != nil {
			return err
		}
		if problem == nil {
			return apperr.NotFound("problem not found")
		}
		if ch.Notes != nil {
			problem.Notes = strings.TrimSpace(*ch.Notes)
		}
		finishing := ch.Status != nil && *ch.Status == models.ProblemDone && problem.Status != models.ProblemDone
		if ch.Status != nil {
			problem.Status = *ch.Status
		}
		if ch.Deadline != nil {
			problem.Deadline = *ch.Deadline
		}
		if err := r.Problems.Update(ctx, problem); err != nil {
			return err
		}
		if !finishing {
			return nil
		}

		// a done problem is never reviewed again, so its pending reminders are cancelled
		pending, err := r.Reminders.FindPendingForProblem(ctx, problem.ID, userID)
		if err != nil {
			return err
		}
		for _, rem := range pending {
			if _, err := r.Reminders.UpdateStatus(ctx, rem.ID, userID, models.ReminderCancelled); err != nil {
				return err
			}
		}
		cancelled = len(pending)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update problem: %w", err)
	}
	if cancelled > 0 {
		s.log.Info("problem done, pending reminders cancelled", "problem_id", problemID, "user_id", userID, "cancelled", cancelled)
	}
	return problem, nil
}

// DeleteProblem removes a problem together with all its reminders
func (s *Service) DeleteProblem(ctx context.Context, problemID, userID int64) error {
	unlock := s.locks.Lock(lockKey{problemID: problemID, userID: userID})
	defer unlock()

	var removed int64
	err := s.store.Atomic(ctx, func(r Repositories) error {
		problem, err := r.Problems.FindOwnedByIDForUpdate(ctx, problemID, userID)
		if err != nil {
			return err
		}
		if problem == nil {
			return apperr.NotFound("problem not found")
		}
		if removed, err = r.Reminders.DeleteByProblem(ctx, problemID); err != nil {
			return err
		}
		ok, err := r.Problems.Delete(ctx, problemID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("problem not found")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete problem: %w", err)
	}

	s.log.Info("problem deleted", "problem_id", problemID, "user_id", userID, "reminders_removed", removed)
	return nil
}
