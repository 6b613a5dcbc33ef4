package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/example/ankicode/pkg/models"
)

// TodayReviewSet returns what the user should review on asOf's day:
// pending reminders due before tomorrow, then problems whose deadline is
// today and that were never practiced. Days are taken in asOf's location.
func (s *Service) TodayReviewSet(ctx context.Context, userID int64, asOf time.Time) ([]models.ReviewItem, error) {
	tomorrow := startOfDay(asOf).AddDate(0, 0, 1)
	return s.ReviewSetUntil(ctx, userID, asOf, tomorrow)
}

// ReviewSetUntil is TodayReviewSet with an arbitrary exclusive cutoff.
// First-time problems are taken from [start of asOf's day, cutoff).
func (s *Service) ReviewSetUntil(ctx context.Context, userID int64, asOf, cutoff time.Time) ([]models.ReviewItem, error) {
	repos := s.store.Repositories()

	reminders, err := repos.Reminders.FindPendingDueBefore(ctx, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to build review set: %w", err)
	}

	ids := make([]int64, 0, len(reminders))
	for _, r := range reminders {
		ids = append(ids, r.ProblemID)
	}
	problems, err := repos.Problems.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build review set: %w", err)
	}
	byID := make(map[int64]models.Problem, len(problems))
	for _, p := range problems {
		byID[p.ID] = p
	}

	items := make([]models.ReviewItem, 0, len(reminders))
	seen := make(map[int64]bool)
	for i := range reminders {
		p, ok := byID[reminders[i].ProblemID]
		if !ok || p.Status == models.ProblemDone {
			continue
		}
		items = append(items, models.ReviewItem{Problem: p, Reminder: &reminders[i]})
		seen[p.ID] = true
	}

	firstTime, err := repos.Problems.ListDueFirstTime(ctx, userID, startOfDay(asOf), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to build review set: %w", err)
	}
	for _, p := range firstTime {
		if seen[p.ID] {
			continue
		}
		items = append(items, models.ReviewItem{Problem: p})
	}
	return items, nil
}
