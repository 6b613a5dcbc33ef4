// Package notify delivers review digests to users over email and Telegram.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/ankicode/internal/logger"
	"github.com/example/ankicode/pkg/models"
)

// Notifier delivers one digest to one user
type Notifier interface {
	Name() string
	// Accepts reports whether the user has a destination on this channel
	Accepts(user models.User) bool
	SendDigest(ctx context.Context, user models.User, items []models.ReviewItem) error
}

// Lifecycle is implemented by notifiers holding a connection that must be
// opened before sending and closed afterwards
type Lifecycle interface {
	Open(ctx context.Context) error
	Close() error
}

// ErrNoDestination is returned when no channel accepts the user
var ErrNoDestination = errors.New("user has no notification destination")

// Delivers reports whether a successful SendDigest on n means the digest
// reached the user. Notifiers that only record digests report false through
// a Delivers() bool method; every other notifier delivers.
func Delivers(n Notifier) bool {
	if d, ok := n.(interface{ Delivers() bool }); ok {
		return d.Delivers()
	}
	return true
}

// Multi fans a digest out to every channel the user has a destination on.
// The send succeeds if at least one channel delivered it. Channels that only
// record digests never stand in for a failed delivery.
type Multi struct {
	notifiers []Notifier
	log       *logger.Logger
}

// NewMulti creates a fan-out notifier
func NewMulti(log *logger.Logger, notifiers ...Notifier) *Multi {
	if log == nil {
		log = logger.NewNop()
	}
	return &Multi{notifiers: notifiers, log: log}
}

func (m *Multi) Name() string { return "multi" }

func (m *Multi) Accepts(user models.User) bool {
	for _, n := range m.notifiers {
		if n.Accepts(user) {
			return true
		}
	}
	return false
}

// Delivers is true when any member delivers
func (m *Multi) Delivers() bool {
	for _, n := range m.notifiers {
		if Delivers(n) {
			return true
		}
	}
	return false
}

func (m *Multi) SendDigest(ctx context.Context, user models.User, items []models.ReviewItem) error {
	var errs []error
	delivered, recorded := 0, 0
	for _, n := range m.notifiers {
		if !n.Accepts(user) {
			continue
		}
		if err := n.SendDigest(ctx, user, items); err != nil {
			m.log.Warn("digest channel failed", "channel", n.Name(), "user_id", user.ID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			continue
		}
		if Delivers(n) {
			delivered++
		} else {
			recorded++
		}
	}
	switch {
	case delivered > 0:
		return nil
	case len(errs) > 0:
		return errors.Join(errs...)
	case recorded > 0:
		return nil
	}
	return ErrNoDestination
}

// Open opens every member that has a lifecycle. A member that failed to
// open keeps failing its sends while the others still deliver.
func (m *Multi) Open(ctx context.Context) error {
	var errs []error
	for _, n := range m.notifiers {
		if lc, ok := n.(Lifecycle); ok {
			if err := lc.Open(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, n := range m.notifiers {
		if lc, ok := n.(Lifecycle); ok {
			if err := lc.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// Log writes digests to the log instead of delivering them
type Log struct {
	log      *logger.Logger
	renderer *Renderer
}

// NewLog creates a dry-run notifier
func NewLog(log *logger.Logger, renderer *Renderer) *Log {
	return &Log{log: log, renderer: renderer}
}

func (l *Log) Name() string { return "log" }

func (l *Log) Accepts(user models.User) bool { return true }

// Delivers is always false: nothing leaves the process
func (l *Log) Delivers() bool { return false }

func (l *Log) SendDigest(ctx context.Context, user models.User, items []models.ReviewItem) error {
	body, err := l.renderer.Text(user, items)
	if err != nil {
		return err
	}
	l.log.Info("digest (dry run)", "user_id", user.ID, "items", len(items), "body", body)
	return nil
}
