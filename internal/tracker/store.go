package tracker

import (
	"context"
	"time"

	"github.com/example/ankicode/pkg/models"
)

// ProblemRepository is the problem storage used by the service
type ProblemRepository interface {
	FindOwnedByID(ctx context.Context, id, userID int64) (*models.Problem, error)
	FindOwnedByIDForUpdate(ctx context.Context, id, userID int64) (*models.Problem, error)
	FindByLeetcodeID(ctx context.Context, userID int64, leetcodeID int) (*models.Problem, error)
	ListByOwner(ctx context.Context, userID int64) ([]models.Problem, error)
	ListDueFirstTime(ctx context.Context, userID int64, windowStart, windowEnd time.Time) ([]models.Problem, error)
	ListByIDs(ctx context.Context, ids []int64) ([]models.Problem, error)
	Create(ctx context.Context, p *models.Problem) error
	Update(ctx context.Context, p *models.Problem) error
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// ReminderRepository is the reminder storage used by the service
type ReminderRepository interface {
	Create(ctx context.Context, rem *models.Reminder) error
	FindOwnedByID(ctx context.Context, id, userID int64) (*models.Reminder, error)
	FindPendingDueBefore(ctx context.Context, userID int64, cutoff time.Time) ([]models.Reminder, error)
	FindPendingForProblem(ctx context.Context, problemID, userID int64) ([]models.Reminder, error)
	ListByUser(ctx context.Context, userID int64, status models.ReminderStatus) ([]models.Reminder, error)
	UpdateStatus(ctx context.Context, id, userID int64, status models.ReminderStatus) (bool, error)
	RetirePending(ctx context.Context, problemID, userID, keepID int64) (int64, error)
	MarkSent(ctx context.Context, userID int64, ids []int64) (int64, error)
	DeleteByProblem(ctx context.Context, problemID int64) (int64, error)
}

// UserRepository is the user storage used by the service
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	GetUsersForNotification(ctx context.Context) ([]models.User, error)
}

// Repositories groups the repositories bound to one connection or transaction
type Repositories struct {
	Problems  ProblemRepository
	Reminders ReminderRepository
	Users     UserRepository
}

// Store hands out repositories. Atomic runs fn against repositories bound
// to a single transaction which commits only if fn returns nil.
type Store interface {
	Repositories() Repositories
	Atomic(ctx context.Context, fn func(r Repositories) error) error
}
