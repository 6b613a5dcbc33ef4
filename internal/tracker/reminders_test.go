package tracker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/pkg/models"
)

func TestCreateManualReminderKeepsExistingPending(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	u := env.user(t, "ada@ankicode.dev")
	p := env.problem(t, u.ID, 1, date(2024, 1, 1))

	practice, err := env.svc.LogPractice(ctx, PracticeLog{ProblemID: p.ID, UserID: u.ID, Confidence: models.ConfidenceHard, CompletedAt: date(2024, 1, 1)})
	require.NoError(t, err)

	manual, err := env.svc.CreateManualReminder(ctx, p.ID, u.ID, date(2024, 1, 5))
	require.NoError(t, err)
	assert.Equal(t, models.FromManual, manual.CreatedFrom)
	assert.Equal(t, models.ReminderPending, manual.Status)
	assert.Empty(t, manual.Meta.Confidence)
	assert.Nil(t, manual.Meta.DurationSec)

	pending := env.pendingFor(t, p.ID, u.ID)
	require.Len(t, pending, 2)
	assert.Equal(t, practice.Reminder.ID, pending[0].ID)
	assert.Equal(t, manual.ID, pending[1].ID)
}

func TestCreateManualReminderErrors(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	u := env.user(t, "ada@ankicode.dev")
	other := env.user(t, "bob@ankicode.dev")
	p := env.problem(t, u.ID, 1, date(2024, 1, 1))

	_, err := env.svc.CreateManualReminder(ctx, p.ID, other.ID, date(2024, 1, 5))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.svc.CreateManualReminder(ctx, p.ID, u.ID, date(1, 1, 1))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateReminderStatusPermissive(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	u := env.user(t, "ada@ankicode.dev")
	p := env.problem(t, u.ID, 1, date(2024, 1, 1))
	r, err := env.svc.CreateManualReminder(ctx, p.ID, u.ID, date(2024, 1, 5))
	require.NoError(t, err)

	for _, status := range []models.ReminderStatus{
		models.ReminderCancelled,
		models.ReminderPending,
		models.ReminderSent,
		models.ReminderSnoozed,
	} {
		got, err := env.svc.UpdateReminderStatus(ctx, r.ID, u.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
}

func TestUpdateReminderStatusStrict(t *testing.T) {
	env := newTestEnv(t, Options{StrictTransitions: true})
	ctx := context.Background()
	u := env.user(t, "ada@ankicode.dev")
	p := env.problem(t, u.ID, 1, date(2024, 1, 1))
	r, err := env.svc.CreateManualReminder(ctx, p.ID, u.ID, date(2024, 1, 5))
	require.NoError(t, err)

	got, err := env.svc.UpdateReminderStatus(ctx, r.ID, u.ID, models.ReminderSnoozed)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderSnoozed, got.Status)

	_, err = env.svc.UpdateReminderStatus(ctx, r.ID, u.ID, models.ReminderSent)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = env.svc.UpdateReminderStatus(ctx, r.ID, u.ID, models.ReminderCancelled)
	require.NoError(t, err)

	// cancelled is terminal, but rewriting it is accepted
	_, err = env.svc.UpdateReminderStatus(ctx, r.ID, u.ID, models.ReminderPending)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
	got, err = env.svc.UpdateReminderStatus(ctx, r.ID, u.ID, models.ReminderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.ReminderCancelled, got.Status)
}

func TestUpdateReminderStatusErrors(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	u := env.user(t, "ada@ankicode.dev")
	other := env.user(t, "bob@ankicode.dev")
	p := env.problem(t, u.ID, 1, date(2024, 1, 1))
	r, err := env.svc.CreateManualReminder(ctx, p.ID, u.ID, date(2024, 1, 5))
	require.NoError(t, err)

	_, err = env.svc.UpdateReminderStatus(ctx, r.ID, other.ID, models.ReminderCancelled)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.svc.UpdateReminderStatus(ctx, r.ID, u.ID, "archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.ReminderStatus
		want     bool
	}{
		{models.ReminderPending, models.ReminderSent, true},
		{models.ReminderPending, models.ReminderSnoozed, true},
		{models.ReminderPending, models.ReminderCancelled, true},
		{models.ReminderSnoozed, models.ReminderPending, true},
		{models.ReminderSnoozed, models.ReminderCancelled, true},
		{models.ReminderSnoozed, models.ReminderSent, false},
		{models.ReminderSent, models.ReminderPending, false},
		{models.ReminderCancelled, models.ReminderPending, false},
		{models.ReminderSent, models.ReminderSent, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestMarkDelivered(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	u := env.user(t, "ada@ankicode.dev")
	p := env.problem(t, u.ID, 1, date(2024, 1, 1))
	a, err := env.svc.CreateManualReminder(ctx, p.ID, u.ID, date(2024, 1, 5))
	require.NoError(t, err)
	b, err := env.svc.CreateManualReminder(ctx, p.ID, u.ID, date(2024, 1, 6))
	require.NoError(t, err)
	_, err = env.svc.UpdateReminderStatus(ctx, b.ID, u.ID, models.ReminderCancelled)
	require.NoError(t, err)

	n, err := env.svc.MarkDelivered(ctx, u.ID, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	all, err := env.svc.ListReminders(ctx, u.ID, "")
	require.NoError(t, err)
	statuses := map[int64]models.ReminderStatus{}
	for _, r := range all {
		statuses[r.ID] = r.Status
	}
	assert.Equal(t, models.ReminderSent, statuses[a.ID])
	assert.Equal(t, models.ReminderCancelled, statuses[b.ID])

	n, err = env.svc.MarkDelivered(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
