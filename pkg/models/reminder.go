package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReminderStatus is the lifecycle state of a reminder
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderSnoozed   ReminderStatus = "snoozed"
	ReminderCancelled ReminderStatus = "cancelled"
)

// Valid reports whether s is a known reminder status
func (s ReminderStatus) Valid() bool {
	switch s {
	case ReminderPending, ReminderSent, ReminderSnoozed, ReminderCancelled:
		return true
	}
	return false
}

// ReminderSource records what created a reminder
type ReminderSource string

const (
	FromPractice ReminderSource = "practice"
	FromManual   ReminderSource = "manual"
)

// ReminderMeta holds the practice session a reminder was scheduled from.
// Manual reminders carry an empty meta.
type ReminderMeta struct {
	Confidence  Confidence `json:"confidence,omitempty"`
	DurationSec *int       `json:"duration_sec,omitempty"`
}

// Value implements driver.Valuer
func (m ReminderMeta) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder meta: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *ReminderMeta) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// Reminder is a scheduled review of one problem for its owner
type Reminder struct {
	ID           int64          `json:"id" db:"id"`
	ProblemID    int64          `json:"problem_id" db:"problem_id"`
	UserID       int64          `json:"user_id" db:"user_id"`
	ScheduledFor time.Time      `json:"scheduled_for" db:"scheduled_for"`
	CreatedFrom  ReminderSource `json:"created_from" db:"created_from"`
	Status       ReminderStatus `json:"status" db:"status"`
	Meta         ReminderMeta   `json:"meta" db:"meta"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// ReviewItem is one entry of a review set: a due reminder with its problem,
// or a first-time problem with no reminder yet
type ReviewItem struct {
	Problem  Problem   `json:"problem"`
	Reminder *Reminder `json:"reminder"`
}
