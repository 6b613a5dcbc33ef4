package cmd

import (
	"fmt"

	"github.com/example/ankicode/internal/config"
	"github.com/example/ankicode/internal/database"
	"github.com/example/ankicode/internal/digest"
	"github.com/example/ankicode/internal/leetcode"
	"github.com/example/ankicode/internal/logger"
	"github.com/example/ankicode/internal/notify"
	"github.com/example/ankicode/internal/tracker"
)

// app holds everything a command needs, built once per invocation
type app struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.DB
	svc *tracker.Service
}

func openApp(envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	lookup := leetcode.New(cfg.LeetcodeAPIBase, cfg.LeetcodeAPITimeout)
	svc := tracker.NewService(tracker.NewSQLStore(db), lookup, log, tracker.Options{
		StrictTransitions: cfg.StrictReminderTransitions,
		Location:          cfg.Location,
	})

	return &app{cfg: cfg, log: log, db: db, svc: svc}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database", "error", err)
	}
	a.log.Sync()
}

// notifier builds the digest channels that are configured. With dryRun or
// no channel configured, digests are only logged and the run leaves every
// reminder pending.
func (a *app) notifier(dryRun bool) (notify.Notifier, error) {
	renderer := &notify.Renderer{FrontendURL: a.cfg.FrontendURL, Location: a.cfg.Location}
	if dryRun {
		return notify.NewLog(a.log, renderer), nil
	}

	var channels []notify.Notifier
	if a.cfg.EmailEnabled() {
		email, err := notify.NewEmail(notify.EmailConfig{
			Host:     a.cfg.SMTPHost,
			Port:     a.cfg.SMTPPort,
			Username: a.cfg.SMTPUser,
			Password: a.cfg.SMTPPass,
			SSL:      a.cfg.SMTPSecure,
			From:     a.cfg.EmailFrom,
		}, renderer)
		if err != nil {
			return nil, err
		}
		channels = append(channels, email)
	}
	if a.cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(a.cfg.TelegramBotToken, renderer)
		if err != nil {
			return nil, err
		}
		channels = append(channels, tg)
	}

	if len(channels) == 0 {
		a.log.Warn("no notification channel configured, digests will only be logged and reminders stay pending")
		return notify.NewLog(a.log, renderer), nil
	}
	return notify.NewMulti(a.log, channels...), nil
}

func (a *app) digestRunner(dryRun bool) (*digest.Runner, error) {
	n, err := a.notifier(dryRun)
	if err != nil {
		return nil, err
	}
	return digest.NewRunner(a.svc, n, a.log, digest.Options{
		LookaheadDays: a.cfg.DigestLookaheadDays,
		Concurrency:   a.cfg.DigestConcurrency,
		SkipDomains:   a.cfg.DigestSkipDomains,
		Location:      a.cfg.Location,
		DryRun:        dryRun,
	}), nil
}
