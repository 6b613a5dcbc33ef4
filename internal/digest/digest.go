// Package digest runs the daily batch that mails each opted-in user what
// they have to review and marks the delivered reminders as sent.
package digest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/ankicode/internal/logger"
	"github.com/example/ankicode/internal/notify"
	"github.com/example/ankicode/pkg/models"
)

// Source is where the batch reads review sets from and reports deliveries to
type Source interface {
	UsersForNotification(ctx context.Context) ([]models.User, error)
	ReviewSetUntil(ctx context.Context, userID int64, asOf, cutoff time.Time) ([]models.ReviewItem, error)
	MarkDelivered(ctx context.Context, userID int64, reminderIDs []int64) (int64, error)
}

// Options configure a Runner
type Options struct {
	// LookaheadDays extends the window past today; 1 covers the end of tomorrow
	LookaheadDays int
	Concurrency   int
	// SkipDomains lists email domains that never receive mail
	SkipDomains []string
	Location    *time.Location
	Now         func() time.Time
	// DryRun renders and sends digests but never marks reminders sent. It is
	// implied when the notifier does not deliver.
	DryRun bool
}

// Report summarizes one run
type Report struct {
	RunID           string
	DryRun          bool
	Users           int
	Sent            int
	Empty           int
	Skipped         int
	Failed          int
	RemindersMarked int64
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Runner executes digest runs
type Runner struct {
	source   Source
	notifier notify.Notifier
	log      *logger.Logger
	opts     Options
}

// NewRunner creates a digest runner
func NewRunner(source Source, notifier notify.Notifier, log *logger.Logger, opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.LookaheadDays < 0 {
		opts.LookaheadDays = 0
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.NewNop()
	}
	if notifier != nil && !notify.Delivers(notifier) {
		opts.DryRun = true
	}
	return &Runner{source: source, notifier: notifier, log: log, opts: opts}
}

// Cutoff returns the exclusive end of the digest window for a run at asOf
func (r *Runner) Cutoff(asOf time.Time) time.Time {
	asOf = asOf.In(r.opts.Location)
	y, m, d := asOf.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.opts.Location).AddDate(0, 0, r.opts.LookaheadDays+1)
}

// Run sends one digest per opted-in user. A failed delivery is logged and
// counted; it never aborts the run or touches the scheduled reminders.
// Only a failure to list users or a cancelled context returns an error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), DryRun: r.opts.DryRun, StartedAt: r.opts.Now()}
	log := r.log.With("run_id", report.RunID)

	asOf := r.opts.Now().In(r.opts.Location)
	cutoff := r.Cutoff(asOf)

	users, err := r.source.UsersForNotification(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users for digest: %w", err)
	}
	report.Users = len(users)
	log.Info("digest run started", "users", len(users), "cutoff", cutoff.Format(time.RFC3339), "dry_run", r.opts.DryRun)

	if lc, ok := r.notifier.(notify.Lifecycle); ok {
		if err := lc.Open(ctx); err != nil {
			log.Warn("failed to open notifier", "error", err)
		}
		defer func() {
			if err := lc.Close(); err != nil {
				log.Warn("failed to close notifier", "error", err)
			}
		}()
	}

	var mu sync.Mutex
	count := func(fn func()) {
		mu.Lock()
		fn()
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for _, u := range users {
		u := u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, marked := r.deliver(gctx, log, u, asOf, cutoff)
			count(func() {
				switch outcome {
				case outcomeSent:
					report.Sent++
				case outcomeEmpty:
					report.Empty++
				case outcomeSkipped:
					report.Skipped++
				case outcomeFailed:
					report.Failed++
				}
				report.RemindersMarked += marked
			})
			return nil
		})
	}
	err = g.Wait()
	report.FinishedAt = r.opts.Now()

	log.Info("digest run finished",
		"sent", report.Sent,
		"empty", report.Empty,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"reminders_marked", report.RemindersMarked,
	)
	if err != nil {
		return report, fmt.Errorf("digest run interrupted: %w", err)
	}
	return report, nil
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeEmpty
	outcomeSkipped
	outcomeFailed
)

func (r *Runner) deliver(ctx context.Context, log *logger.Logger, user models.User, asOf, cutoff time.Time) (outcome, int64) {
	log = log.With("user_id", user.ID)

	if r.skippedDomain(user.DigestEmail()) {
		user.Email = ""
		user.NotificationEmail = ""
	}
	if !r.notifier.Accepts(user) {
		log.Debug("skipping user without destination")
		return outcomeSkipped, 0
	}

	items, err := r.source.ReviewSetUntil(ctx, user.ID, asOf, cutoff)
	if err != nil {
		log.Error("failed to build review set", "error", err)
		return outcomeFailed, 0
	}
	if len(items) == 0 {
		return outcomeEmpty, 0
	}

	if err := r.notifier.SendDigest(ctx, user, items); err != nil {
		log.Error("failed to deliver digest", "items", len(items), "error", err)
		return outcomeFailed, 0
	}

	if r.opts.DryRun {
		log.Info("digest recorded, reminders left pending", "items", len(items))
		return outcomeSent, 0
	}

	var ids []int64
	for _, it := range items {
		if it.Reminder != nil {
			ids = append(ids, it.Reminder.ID)
		}
	}
	marked, err := r.source.MarkDelivered(ctx, user.ID, ids)
	if err != nil {
		// the digest went out; the reminders stay pending and show up again next run
		log.Error("failed to mark reminders delivered", "reminders", len(ids), "error", err)
	}
	log.Info("digest delivered", "items", len(items), "reminders_marked", marked)
	return outcomeSent, marked
}

func (r *Runner) skippedDomain(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, d := range r.opts.SkipDomains {
		if strings.EqualFold(domain, strings.TrimPrefix(d, "@")) {
			return true
		}
	}
	return false
}
