package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Difficulty is the canonical LeetCode difficulty of a problem
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ProblemStatus tracks where a problem is in the user's practice plan
type ProblemStatus string

const (
	ProblemTodo       ProblemStatus = "todo"
	ProblemInProgress ProblemStatus = "in_progress"
	ProblemDone       ProblemStatus = "done"
)

// Valid reports whether s is a known problem status
func (s ProblemStatus) Valid() bool {
	switch s {
	case ProblemTodo, ProblemInProgress, ProblemDone:
		return true
	}
	return false
}

// Confidence is the user's self-rated recall difficulty for one practice session
type Confidence string

const (
	ConfidenceHard   Confidence = "hard"
	ConfidenceMedium Confidence = "medium"
	ConfidenceEasy   Confidence = "easy"
)

// Valid reports whether c is one of hard, medium or easy
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHard, ConfidenceMedium, ConfidenceEasy:
		return true
	}
	return false
}

// ConfidenceEntry is one logged practice session
type ConfidenceEntry struct {
	Date  time.Time  `json:"date"`
	Level Confidence `json:"level"`
}

// ConfidenceHistory is append-only and ordered by date ascending.
// It is stored as a JSON array column.
type ConfidenceHistory []ConfidenceEntry

// Value implements driver.Valuer
func (h ConfidenceHistory) Value() (driver.Value, error) {
	if h == nil {
		h = ConfidenceHistory{}
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal confidence history: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (h *ConfidenceHistory) Scan(src interface{}) error {
	return scanJSON(src, h)
}

// Tags is the problem's topic tag set, stored as a JSON array column
type Tags []string

// Value implements driver.Valuer
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (t *Tags) Scan(src interface{}) error {
	return scanJSON(src, t)
}

func scanJSON(src interface{}, dest interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		b = []byte(v)
	case []byte:
		b = v
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, dest)
}

// Problem is a LeetCode problem a user has added to their practice plan
type Problem struct {
	ID                int64             `json:"id" db:"id"`
	OwnerID           int64             `json:"owner_id" db:"owner_id"`
	LeetcodeID        int               `json:"leetcode_id" db:"leetcode_id"`
	TitleSlug         string            `json:"title_slug" db:"title_slug"`
	Name              string            `json:"name" db:"name"`
	Difficulty        Difficulty        `json:"difficulty" db:"difficulty"`
	Notes             string            `json:"notes" db:"notes"`
	Tags              Tags              `json:"tags" db:"tags"`
	Deadline          time.Time         `json:"deadline" db:"deadline"`
	Status            ProblemStatus     `json:"status" db:"status"`
	LastPracticedAt   *time.Time        `json:"last_practiced_at,omitempty" db:"last_practiced_at"`
	ConfidenceHistory ConfidenceHistory `json:"confidence_history" db:"confidence_history"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" db:"updated_at"`
}

// URL returns the problem page on leetcode.com
func (p *Problem) URL() string {
	if p.TitleSlug == "" {
		return ""
	}
	return "https://leetcode.com/problems/" + p.TitleSlug + "/"
}
