package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, 15*time.Second, cfg.LeetcodeAPITimeout)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.SMTPSecure)
	assert.Equal(t, "09:00", cfg.DigestAt)
	assert.Equal(t, 1, cfg.DigestLookaheadDays)
	assert.Equal(t, []string{"example.com"}, cfg.DigestSkipDomains)
	assert.False(t, cfg.StrictReminderTransitions)
	assert.False(t, cfg.EmailEnabled())
	assert.False(t, cfg.TelegramEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"DB_DRIVER":                   "postgres",
		"DB_DSN":                      "postgres://localhost/ankicode?sslmode=disable",
		"TIMEZONE":                    "Europe/Berlin",
		"LEETCODE_API_TIMEOUT":        "3s",
		"SMTP_PORT":                   "465",
		"SMTP_USER":                   "bot@ankicode.dev",
		"SMTP_PASS":                   "secret",
		"DIGEST_SKIP_DOMAINS":         "Example.com, test.local",
		"STRICT_REMINDER_TRANSITIONS": "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, 3*time.Second, cfg.LeetcodeAPITimeout)
	assert.True(t, cfg.SMTPSecure, "port 465 implies implicit TLS")
	assert.Equal(t, "bot@ankicode.dev", cfg.EmailFrom, "EMAIL_FROM falls back to SMTP_USER")
	assert.Equal(t, []string{"example.com", "test.local"}, cfg.DigestSkipDomains)
	assert.True(t, cfg.StrictReminderTransitions)
	assert.True(t, cfg.EmailEnabled())
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"driver":      {"DB_DRIVER": "mysql"},
		"port":        {"SMTP_PORT": "abc"},
		"timeout":     {"LEETCODE_API_TIMEOUT": "soon"},
		"clock":       {"DIGEST_AT": "25:99"},
		"concurrency": {"DIGEST_CONCURRENCY": "0"},
		"bool":        {"SMTP_SECURE": "maybe"},
		"timezone":    {"TIMEZONE": "Mars/Olympus"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envMap(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DIGEST_AT=07:30\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("DIGEST_AT") })

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "07:30", cfg.DigestAt)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("18:45")
	require.NoError(t, err)
	assert.Equal(t, 18, h)
	assert.Equal(t, 45, m)
}
