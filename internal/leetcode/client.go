// Package leetcode fetches canonical problem metadata from the
// alfa-leetcode-api proxy.
package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/ankicode/internal/apperr"
	"github.com/example/ankicode/pkg/models"
)

const (
	DefaultBaseURL = "https://alfa-leetcode-api.onrender.com"
	DefaultTimeout = 15 * time.Second

	// The problem list endpoint has no lookup by number, so the whole
	// catalogue is fetched in one page
	defaultListLimit = 5000
)

// Metadata is the canonical description of a LeetCode problem
type Metadata struct {
	FrontendID int
	Title      string
	TitleSlug  string
	Difficulty models.Difficulty
	Tags       []string
}

// Client represents a client for the alfa-leetcode-api
type Client struct {
	baseURL    string
	timeout    time.Duration
	listLimit  int
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithListLimit sets how many problems are requested from the list endpoint
func WithListLimit(n int) Option {
	return func(c *Client) { c.listLimit = n }
}

// New creates a new client. A zero timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		listLimit:  defaultListLimit,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type topicTag struct {
	Name string `json:"name"`
}

// listResponse represents a response from GET /problems
type listResponse struct {
	Questions []struct {
		QuestionFrontendID string     `json:"questionFrontendId"`
		Title              string     `json:"title"`
		TitleSlug          string     `json:"titleSlug"`
		Difficulty         string     `json:"difficulty"`
		TopicTags          []topicTag `json:"topicTags"`
	} `json:"problemsetQuestionList"`
}

// selectResponse represents a response from GET /select
type selectResponse struct {
	QuestionFrontendID string     `json:"questionFrontendId"`
	QuestionTitle      string     `json:"questionTitle"`
	Title              string     `json:"title"`
	TitleSlug          string     `json:"titleSlug"`
	Difficulty         string     `json:"difficulty"`
	TopicTags          []topicTag `json:"topicTags"`
}

// FetchProblem resolves a problem number to its metadata. The whole lookup
// is bounded by the client timeout.
//
// Errors are classified: apperr.ErrNotFound when no problem has that
// number, apperr.ErrUpstreamTimeout when the bound is exceeded and
// apperr.ErrUpstreamUnavailable for any other upstream failure.
func (c *Client) FetchProblem(ctx context.Context, number int) (*Metadata, error) {
	if number <= 0 {
		return nil, apperr.Validation("leetcode id must be a positive number")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	slug, err := c.findTitleSlug(ctx, number)
	if err != nil {
		return nil, err
	}

	var detail selectResponse
	q := url.Values{"titleSlug": {slug}}
	if err := c.getJSON(ctx, "/select", q, &detail); err != nil {
		return nil, err
	}

	title := detail.QuestionTitle
	if title == "" {
		title = detail.Title
	}
	if title == "" || detail.TitleSlug == "" {
		return nil, apperr.New(apperr.KindUpstreamUnavailable, "leetcode returned incomplete metadata for problem %d", number)
	}
	difficulty, err := parseDifficulty(detail.Difficulty)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstreamUnavailable, err, "leetcode returned incomplete metadata for problem %d", number)
	}

	tags := make([]string, 0, len(detail.TopicTags))
	for _, t := range detail.TopicTags {
		if t.Name != "" {
			tags = append(tags, t.Name)
		}
	}

	return &Metadata{
		FrontendID: number,
		Title:      title,
		TitleSlug:  detail.TitleSlug,
		Difficulty: difficulty,
		Tags:       tags,
	}, nil
}

func (c *Client) findTitleSlug(ctx context.Context, number int) (string, error) {
	var list listResponse
	q := url.Values{"limit": {strconv.Itoa(c.listLimit)}}
	if err := c.getJSON(ctx, "/problems", q, &list); err != nil {
		return "", err
	}

	want := strconv.Itoa(number)
	for _, p := range list.Questions {
		if p.QuestionFrontendID == want && p.TitleSlug != "" {
			return p.TitleSlug, nil
		}
	}
	return "", apperr.NotFound("leetcode problem %d not found", number)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.NotFound("leetcode problem not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.New(apperr.KindUpstreamUnavailable, "leetcode api returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return classify(ctx, err)
		}
		return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "failed to decode leetcode response")
	}
	return nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperr.Wrap(apperr.KindUpstreamTimeout, err, "leetcode api timed out")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.Wrap(apperr.KindUpstreamTimeout, err, "leetcode api timed out")
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("leetcode request cancelled: %w", err)
	}
	return apperr.Wrap(apperr.KindUpstreamUnavailable, err, "leetcode api unavailable")
}

func parseDifficulty(s string) (models.Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return models.DifficultyEasy, nil
	case "medium":
		return models.DifficultyMedium, nil
	case "hard":
		return models.DifficultyHard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}
