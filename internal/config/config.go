package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting, read from the environment
type Config struct {
	Env string

	DBDriver string
	DBDSN    string

	// Location used for day boundaries and weekend detection
	Location *time.Location

	LeetcodeAPIBase    string
	LeetcodeAPITimeout time.Duration

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	SMTPSecure bool
	EmailFrom  string

	FrontendURL      string
	TelegramBotToken string

	// DigestAt is the "HH:MM" wall-clock time of the daily digest
	DigestAt            string
	DigestLookaheadDays int
	DigestConcurrency   int
	DigestSkipDomains   []string

	StrictReminderTransitions bool
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Env:                 "dev",
		DBDriver:            "sqlite3",
		DBDSN:               "data/ankicode.db",
		Location:            time.UTC,
		LeetcodeAPIBase:     "https://alfa-leetcode-api.onrender.com",
		LeetcodeAPITimeout:  15 * time.Second,
		SMTPHost:            "smtp.gmail.com",
		SMTPPort:            587,
		FrontendURL:         "http://localhost:5173",
		DigestAt:            "09:00",
		DigestLookaheadDays: 1,
		DigestConcurrency:   4,
		DigestSkipDomains:   []string{"example.com"},
	}
}

// Load reads an optional .env file (files are tried in order, missing files
// are ignored) and then the process environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
				return
			}
			*dst = b
		}
	}

	str("APP_ENV", &cfg.Env)
	str("DB_DRIVER", &cfg.DBDriver)
	str("DB_DSN", &cfg.DBDSN)
	if tz := strings.TrimSpace(getenv("TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
		} else {
			cfg.Location = loc
		}
	}
	str("LEETCODE_API_BASE", &cfg.LeetcodeAPIBase)
	if v := strings.TrimSpace(getenv("LEETCODE_API_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LEETCODE_API_TIMEOUT: invalid duration %q", v))
		} else {
			cfg.LeetcodeAPITimeout = d
		}
	}
	str("SMTP_HOST", &cfg.SMTPHost)
	integer("SMTP_PORT", &cfg.SMTPPort)
	str("SMTP_USER", &cfg.SMTPUser)
	str("SMTP_PASS", &cfg.SMTPPass)
	// Implicit TLS unless told otherwise when talking to the SMTPS port
	cfg.SMTPSecure = cfg.SMTPPort == 465
	boolean("SMTP_SECURE", &cfg.SMTPSecure)
	str("EMAIL_FROM", &cfg.EmailFrom)
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.SMTPUser
	}
	str("FRONTEND_URL", &cfg.FrontendURL)
	str("TELEGRAM_BOT_TOKEN", &cfg.TelegramBotToken)
	str("DIGEST_AT", &cfg.DigestAt)
	integer("DIGEST_LOOKAHEAD_DAYS", &cfg.DigestLookaheadDays)
	integer("DIGEST_CONCURRENCY", &cfg.DigestConcurrency)
	if v, ok := lookup(getenv, "DIGEST_SKIP_DOMAINS"); ok {
		cfg.DigestSkipDomains = splitList(v)
	}
	boolean("STRICT_REMINDER_TRANSITIONS", &cfg.StrictReminderTransitions)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and combinations
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN must not be empty")
	}
	if c.LeetcodeAPITimeout <= 0 {
		return errors.New("LEETCODE_API_TIMEOUT must be positive")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT: %d out of range", c.SMTPPort)
	}
	if _, _, err := ParseClock(c.DigestAt); err != nil {
		return fmt.Errorf("DIGEST_AT: %w", err)
	}
	if c.DigestLookaheadDays < 0 {
		return errors.New("DIGEST_LOOKAHEAD_DAYS must not be negative")
	}
	if c.DigestConcurrency < 1 {
		return errors.New("DIGEST_CONCURRENCY must be at least 1")
	}
	return nil
}

// EmailEnabled reports whether SMTP credentials are configured
func (c *Config) EmailEnabled() bool {
	return c.SMTPUser != "" && c.SMTPPass != ""
}

// TelegramEnabled reports whether a bot token is configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != ""
}

// ParseClock parses an "HH:MM" wall-clock time
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock time %q, want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	return v, v != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
