package spaced_repetition

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/ankicode/pkg/models"
)

// Base intervals in days by confidence
const (
	HardInterval   = 1
	MediumInterval = 3
	EasyInterval   = 7

	// StreakLength consecutive easy ratings earn the streak bonus
	StreakLength = 3
	// StreakInterval is granted on a fresh streak, LongStreakInterval once
	// the previous gap already reached LongStreakThreshold days
	StreakInterval      = 14
	LongStreakInterval  = 30
	LongStreakThreshold = 14
)

// BaseInterval returns the interval in days for a single rating
func BaseInterval(c models.Confidence) int {
	switch c {
	case models.ConfidenceMedium:
		return MediumInterval
	case models.ConfidenceEasy:
		return EasyInterval
	default:
		return HardInterval
	}
}

// NextReviewDate computes when a problem should be reviewed again.
//
// history is the problem's confidence history and already contains the
// entry for the session at completedAt. The streak check looks at the last
// StreakLength entries of it, so the current rating counts toward the streak.
//
// The result is never before completedAt.
func NextReviewDate(confidence models.Confidence, completedAt time.Time, history models.ConfidenceHistory, skipWeekends bool) time.Time {
	days := BaseInterval(confidence)

	if confidence == models.ConfidenceEasy && isEasyStreak(history) {
		if lastInterval(history) >= LongStreakThreshold {
			days = LongStreakInterval
		} else {
			days = StreakInterval
		}
	}

	next := completedAt.AddDate(0, 0, days)

	if skipWeekends {
		next = skipWeekend(next)
	}

	if next.Before(completedAt) {
		next = completedAt
	}
	return next
}

func isEasyStreak(history models.ConfidenceHistory) bool {
	if len(history) < StreakLength {
		return false
	}
	for _, e := range history[len(history)-StreakLength:] {
		if e.Level != models.ConfidenceEasy {
			return false
		}
	}
	return true
}

// lastInterval is the number of whole days between the two most recent entries
func lastInterval(history models.ConfidenceHistory) int {
	if len(history) < 2 {
		return 0
	}
	last := history[len(history)-1].Date
	prev := history[len(history)-2].Date
	d := last.Sub(prev)
	days := int(d / (24 * time.Hour))
	// floor, not truncation toward zero
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// skipWeekend moves Saturday and Sunday to the following Monday, once
func skipWeekend(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

// ParseConfidence parses hard, medium or easy (case-insensitive)
func ParseConfidence(s string) (models.Confidence, error) {
	c := models.Confidence(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("confidence must be hard, medium, or easy, got %q", s)
	}
	return c, nil
}
