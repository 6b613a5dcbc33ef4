package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/internal/database"
	"github.com/example/ankicode/internal/leetcode"
	"github.com/example/ankicode/internal/logger"
	"github.com/example/ankicode/pkg/models"
)

type fakeLookup struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeLookup) FetchProblem(ctx context.Context, number int) (*leetcode.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if number > 1000 {
		return nil, apperr.NotFound("leetcode problem %d not found", number)
	}
	return &leetcode.Metadata{
		FrontendID: number,
		Title:      "Problem " + string(rune('A'+number%26)),
		TitleSlug:  "problem-" + string(rune('a'+number%26)),
		Difficulty: models.DifficultyMedium,
		Tags:       []string{"Array"},
	}, nil
}

type testEnv struct {
	svc    *Service
	db     *database.DB
	lookup *fakeLookup
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	lookup := &fakeLookup{}
	return &testEnv{
		svc:    NewService(NewSQLStore(db), lookup, logger.NewNop(), opts),
		db:     db,
		lookup: lookup,
	}
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.svc.CreateUser(context.Background(), "Ada", email)
	require.NoError(t, err)
	return u
}

func (e *testEnv) problem(t *testing.T, userID int64, leetcodeID int, deadline time.Time) *models.Problem {
	t.Helper()
	p, err := e.svc.AddProblem(context.Background(), userID, NewProblem{LeetcodeID: leetcodeID, Deadline: deadline})
	require.NoError(t, err)
	return p
}

func (e *testEnv) pendingFor(t *testing.T, problemID, userID int64) []models.Reminder {
	t.Helper()
	rs, err := database.NewReminderRepository(e.db).FindPendingForProblem(context.Background(), problemID, userID)
	require.NoError(t, err)
	return rs
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
