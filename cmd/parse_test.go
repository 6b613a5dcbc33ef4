package cmd

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/pkg/models"
)

func TestParseWhen(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 2024-01-06 02:30 UTC is still Jan 5 in New York
	now := time.Date(2024, 1, 6, 2, 30, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"now", now.In(loc)},
		{"today", time.Date(2024, 1, 5, 0, 0, 0, 0, loc)},
		{"Tomorrow", time.Date(2024, 1, 6, 0, 0, 0, 0, loc)},
		{"2024-02-01", time.Date(2024, 2, 1, 0, 0, 0, 0, loc)},
		{" 2024-02-01 08:15 ", time.Date(2024, 2, 1, 8, 15, 0, 0, loc)},
		{"2024-02-01T08:15", time.Date(2024, 2, 1, 8, 15, 0, 0, loc)},
		{"2024-02-01T08:15:00Z", time.Date(2024, 2, 1, 8, 15, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWhen(tt.in, now, loc)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}

	_, err = parseWhen("next week", now, loc)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestParseID(t *testing.T) {
	id, err := parseID("#42", "problem")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, in := range []string{"", "abc", "0", "-3"} {
		_, err := parseID(in, "problem")
		assert.True(t, errors.Is(err, apperr.ErrValidation), in)
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "accepts 1 arg(s), received 0", errorMessage(errors.New("accepts 1 arg(s), received 0")))

	err := apperr.Validation("--user is required")
	assert.Equal(t, apperr.Message(err), errorMessage(err))
}

func TestRequireUser(t *testing.T) {
	defer func(prev int64) { userID = prev }(userID)

	userID = 0
	_, err := requireUser()
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	userID = 7
	id, err := requireUser()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestPrintReviewItems(t *testing.T) {
	at := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	items := []models.ReviewItem{
		{
			Problem:  models.Problem{ID: 1, LeetcodeID: 1, Name: "Two Sum", Difficulty: models.DifficultyEasy},
			Reminder: &models.Reminder{ID: 10, ScheduledFor: at},
		},
		{Problem: models.Problem{ID: 2, LeetcodeID: 206, Name: "Reverse Linked List", Difficulty: models.DifficultyEasy}},
	}

	var buf bytes.Buffer
	printReviewItems(&buf, items, time.UTC)
	out := buf.String()
	assert.Contains(t, out, "Two Sum")
	assert.Contains(t, out, "2024-01-05 09:00")
	assert.Contains(t, out, "first attempt")
	assert.Contains(t, out, "#206")
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"user", "add"}, {"user", "settings"}, {"user", "show"},
		{"problem", "add"}, {"problem", "list"}, {"problem", "show"}, {"problem", "edit"}, {"problem", "delete"},
		{"practice"}, {"reminder", "add"}, {"reminder", "list"}, {"reminder", "status"},
		{"today"}, {"digest"}, {"schedule"}, {"import"},
	} {
		c, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], c.Name())
	}
}
