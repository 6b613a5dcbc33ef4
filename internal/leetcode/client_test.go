package leetcode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/pkg/models"
)

const problemList = `{
	"totalQuestions": 2,
	"count": 2,
	"problemsetQuestionList": [
		{"questionFrontendId": "1", "title": "Two Sum", "titleSlug": "two-sum", "difficulty": "Easy"},
		{"questionFrontendId": "2", "title": "Add Two Numbers", "titleSlug": "add-two-numbers", "difficulty": "Medium"}
	]
}`

const twoSum = `{
	"questionId": "1",
	"questionFrontendId": "1",
	"questionTitle": "Two Sum",
	"titleSlug": "two-sum",
	"difficulty": "Easy",
	"topicTags": [{"name": "Array", "slug": "array"}, {"name": "Hash Table", "slug": "hash-table"}]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func catalogue(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/problems":
		w.Write([]byte(problemList))
	case "/select":
		if r.URL.Query().Get("titleSlug") != "two-sum" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(twoSum))
	default:
		http.NotFound(w, r)
	}
}

func TestFetchProblem(t *testing.T) {
	var limit string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/problems" {
			limit = r.URL.Query().Get("limit")
		}
		catalogue(w, r)
	})

	c := New(srv.URL, time.Second, WithListLimit(100))
	meta, err := c.FetchProblem(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "100", limit)
	assert.Equal(t, 1, meta.FrontendID)
	assert.Equal(t, "Two Sum", meta.Title)
	assert.Equal(t, "two-sum", meta.TitleSlug)
	assert.Equal(t, models.DifficultyEasy, meta.Difficulty)
	assert.Equal(t, []string{"Array", "Hash Table"}, meta.Tags)
}

func TestFetchProblemErrors(t *testing.T) {
	tests := []struct {
		name    string
		number  int
		handler http.HandlerFunc
		want    error
	}{
		{
			name:    "unknown number",
			number:  9999,
			handler: catalogue,
			want:    apperr.ErrNotFound,
		},
		{
			name:    "invalid number",
			number:  0,
			handler: catalogue,
			want:    apperr.ErrValidation,
		},
		{
			name:   "server error",
			number: 1,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			want: apperr.ErrUpstreamUnavailable,
		},
		{
			name:   "malformed body",
			number: 1,
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>sleeping</html>"))
			},
			want: apperr.ErrUpstreamUnavailable,
		},
		{
			name:   "incomplete metadata",
			number: 1,
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/problems" {
					w.Write([]byte(problemList))
					return
				}
				w.Write([]byte(`{"titleSlug": "two-sum", "difficulty": "Easy"}`))
			},
			want: apperr.ErrUpstreamUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.handler)
			_, err := New(srv.URL, time.Second).FetchProblem(context.Background(), tt.number)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFetchProblemTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).FetchProblem(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstreamTimeout)
	assert.NotErrorIs(t, err, apperr.ErrUpstreamUnavailable)
}

func TestFetchProblemConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(catalogue))
	addr := srv.URL
	srv.Close()

	_, err := New(addr, time.Second).FetchProblem(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstreamUnavailable)
}
