package tracker

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/internal/database"
	"github.com/example/ankicode/pkg/models"
)

// Settings holds the user preferences; nil means unchanged
type Settings struct {
	Name              *string
	NotificationEmail *string
	TelegramChatID    *int64
	NotifyOptIn       *bool
	SkipWeekends      *bool
}

// CreateUser registers a user. Email must be unique.
func (s *Service) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email address")
	}

	user := &models.User{
		Name:        strings.TrimSpace(name),
		Email:       email,
		NotifyOptIn: true,
	}
	if err := s.store.Repositories().Users.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.KindDuplicate, err, "a user with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log.Info("user created", "user_id", user.ID)
	return user, nil
}

// GetUser returns a user by id
func (s *Service) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.Repositories().Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// UpdateSettings changes the scheduling and notification preferences
func (s *Service) UpdateSettings(ctx context.Context, userID int64, in Settings) (*models.User, error) {
	if in.NotificationEmail != nil && *in.NotificationEmail != "" {
		if _, err := mail.ParseAddress(*in.NotificationEmail); err != nil {
			return nil, apperr.Validation("invalid notification email address")
		}
	}

	var user *models.User
	err := s.store.Atomic(ctx, func(r Repositories) error {
		var err error
		user, err = r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound("user not found")
		}
		if in.Name != nil {
			user.Name = strings.TrimSpace(*in.Name)
		}
		if in.NotificationEmail != nil {
			user.NotificationEmail = strings.TrimSpace(*in.NotificationEmail)
		}
		if in.TelegramChatID != nil {
			user.TelegramChatID = *in.TelegramChatID
		}
		if in.NotifyOptIn != nil {
			user.NotifyOptIn = *in.NotifyOptIn
		}
		if in.SkipWeekends != nil {
			user.SkipWeekends = *in.SkipWeekends
		}
		return r.Users.Update(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return user, nil
}

// UsersForNotification returns the users who opted in to digests
func (s *Service) UsersForNotification(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Repositories().Users.GetUsersForNotification(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
