package models

import "time"

// User owns problems and reminders and carries the scheduling and
// notification preferences
type User struct {
	ID                int64     `json:"id" db:"id"`
	Name              string    `json:"name" db:"name"`
	Email             string    `json:"email" db:"email"`
	NotificationEmail string    `json:"notification_email" db:"notification_email"`
	TelegramChatID    int64     `json:"telegram_chat_id" db:"telegram_chat_id"`
	NotifyOptIn       bool      `json:"notify_opt_in" db:"notify_opt_in"`
	SkipWeekends      bool      `json:"skip_weekends" db:"skip_weekends"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// DigestEmail returns the address digests go to, falling back to the login email
func (u *User) DigestEmail() string {
	if u.NotificationEmail != "" {
		return u.NotificationEmail
	}
	return u.Email
}
