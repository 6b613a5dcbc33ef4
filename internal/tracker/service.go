// Package tracker implements the practice and reminder lifecycle: problems
// owned by a user, practice logs that schedule the next review, and the
// review set of what is due.
package tracker

import (
	"context"
	"time"

	"github.com/example/ankicode/internal/leetcode"
	"github.com/example/ankicode/internal/logger"
)

// MetadataLookup resolves a LeetCode problem number to its metadata
type MetadataLookup interface {
	FetchProblem(ctx context.Context, number int) (*leetcode.Metadata, error)
}

// Options tune the service
type Options struct {
	// StrictTransitions enforces the reminder status table in UpdateReminderStatus
	StrictTransitions bool
	// Location sets day boundaries and the calendar used for scheduling.
	// Defaults to UTC.
	Location *time.Location
	// Now defaults to time.Now
	Now func() time.Time
}

// Service is the entry point for every tracker operation
type Service struct {
	store  Store
	lookup MetadataLookup
	log    *logger.Logger
	opts   Options
	locks  *keyedMutex
}

// NewService creates a new tracker service
func NewService(store Store, lookup MetadataLookup, log *logger.Logger, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		store:  store,
		lookup: lookup,
		log:    log,
		opts:   opts,
		locks:  newKeyedMutex(),
	}
}

// Location returns the location day boundaries are computed in
func (s *Service) Location() *time.Location {
	return s.opts.Location
}

func (s *Service) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

// startOfDay returns midnight of t's date in t's location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
