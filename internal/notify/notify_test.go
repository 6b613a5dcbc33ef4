package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/example/ankicode/internal/logger"
	"github.com/example/ankicode/pkg/models"
)

func sampleItems() []models.ReviewItem {
	return []models.ReviewItem{
		{
			Problem: models.Problem{ID: 1, LeetcodeID: 1, TitleSlug: "two-sum", Name: "Two Sum", Difficulty: models.DifficultyEasy, Deadline: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			Reminder: &models.Reminder{
				ID:           10,
				ScheduledFor: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC),
			},
		},
		{
			Problem: models.Problem{ID: 2, LeetcodeID: 15, TitleSlug: "3sum", Name: "3Sum", Difficulty: models.DifficultyMedium, Deadline: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestRenderer(t *testing.T) {
	r := &Renderer{FrontendURL: "https://ankicode.dev"}
	user := models.User{ID: 1, Name: "Ada"}

	text, err := r.Text(user, sampleItems())
	require.NoError(t, err)
	assert.Contains(t, text, "Hi Ada,")
	assert.Contains(t, text, "You have 2 problems scheduled for review")
	assert.Contains(t, text, "#1 Two Sum (Easy)")
	assert.Contains(t, text, "Scheduled for: Fri, Jan 5 2024 09:00")
	assert.Contains(t, text, "Link: https://leetcode.com/problems/two-sum/")
	assert.Contains(t, text, "#15 3Sum (Medium)")
	assert.Contains(t, text, "First attempt, deadline Fri, Jan 5 2024")
	assert.Contains(t, text, "Open AnkiCode: https://ankicode.dev")

	html, err := r.HTML(user, sampleItems())
	require.NoError(t, err)
	assert.Contains(t, html, `href="https://leetcode.com/problems/3sum/"`)
	assert.Contains(t, html, `<strong>2</strong> problems`)
	assert.Contains(t, html, "#f59e0b")

	assert.Equal(t, "You have 2 problems to review", r.Subject(sampleItems()))
	assert.Equal(t, "You have 1 problem to review", r.Subject(sampleItems()[:1]))
}

func TestRendererEscapesHTML(t *testing.T) {
	r := &Renderer{}
	items := []models.ReviewItem{{Problem: models.Problem{LeetcodeID: 1, Name: "<script>x</script>", Difficulty: models.DifficultyHard}}}

	html, err := r.HTML(models.User{Name: "Ada"}, items)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")

	text, err := r.Text(models.User{}, items)
	require.NoError(t, err)
	assert.Contains(t, text, "Hi there,")
	assert.Contains(t, text, "You have 1 problem scheduled")
}

type fakeMailer struct {
	dialed bool
	closed bool
	sent   []*mail.Msg
	err    error
}

func (f *fakeMailer) DialWithContext(ctx context.Context) error {
	f.dialed = true
	return nil
}

func (f *fakeMailer) Send(msgs ...*mail.Msg) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msgs...)
	return nil
}

func (f *fakeMailer) Close() error {
	f.closed = true
	return nil
}

func TestEmailLifecycle(t *testing.T) {
	ctx := context.Background()
	fm := &fakeMailer{}
	e := newEmail(fm, "noreply@ankicode.dev", &Renderer{})
	user := models.User{ID: 1, Name: "Ada", Email: "ada@ankicode.dev", NotificationEmail: "alerts@ankicode.dev"}

	err := e.SendDigest(ctx, user, sampleItems())
	require.Error(t, err, "sending before Open fails")

	require.NoError(t, e.Open(ctx))
	assert.True(t, fm.dialed)
	require.NoError(t, e.SendDigest(ctx, user, sampleItems()))
	require.Len(t, fm.sent, 1)

	rcpts, err := fm.sent[0].GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"alerts@ankicode.dev"}, rcpts)

	var buf bytes.Buffer
	_, err = fm.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Subject: You have 2 problems to review")

	require.NoError(t, e.Close())
	assert.True(t, fm.closed)
	require.NoError(t, e.Close())
}

func TestEmailAccepts(t *testing.T) {
	e := newEmail(&fakeMailer{}, "noreply@ankicode.dev", &Renderer{})
	assert.True(t, e.Accepts(models.User{Email: "ada@ankicode.dev"}))
	assert.False(t, e.Accepts(models.User{}))
}

func TestNewEmailValidation(t *testing.T) {
	_, err := NewEmail(EmailConfig{From: "noreply@ankicode.dev"}, &Renderer{})
	assert.Error(t, err)
	_, err = NewEmail(EmailConfig{Host: "smtp.ankicode.dev", Port: 587}, &Renderer{})
	assert.Error(t, err)

	e, err := NewEmail(EmailConfig{Host: "smtp.ankicode.dev", Port: 587, Username: "u", Password: "p", From: "noreply@ankicode.dev"}, &Renderer{})
	require.NoError(t, err)
	assert.Equal(t, "email", e.Name())
}

type fakeBot struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestTelegram(t *testing.T) {
	bot := &fakeBot{}
	tg := &Telegram{api: bot, renderer: &Renderer{}}
	user := models.User{ID: 1, Name: "Ada", TelegramChatID: 4242}

	assert.True(t, tg.Accepts(user))
	assert.False(t, tg.Accepts(models.User{}))

	require.NoError(t, tg.SendDigest(context.Background(), user, sampleItems()))
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(4242), bot.sent[0].ChatID)
	assert.Contains(t, bot.sent[0].Text, "Two Sum")

	assert.ErrorIs(t, tg.SendDigest(context.Background(), models.User{}, sampleItems()), ErrNoDestination)
}

func TestTelegramTruncatesLongDigests(t *testing.T) {
	bot := &fakeBot{}
	tg := &Telegram{api: bot, renderer: &Renderer{}}
	item := sampleItems()[0]
	item.Problem.Name = strings.Repeat("x", 5000)

	require.NoError(t, tg.SendDigest(context.Background(), models.User{TelegramChatID: 1}, []models.ReviewItem{item}))
	assert.Len(t, []rune(bot.sent[0].Text), telegramMaxLen)
}

type recordingNotifier struct {
	name    string
	accepts bool
	err     error
	sent    int
}

func (r *recordingNotifier) Name() string                  { return r.name }
func (r *recordingNotifier) Accepts(user models.User) bool { return r.accepts }
func (r *recordingNotifier) SendDigest(ctx context.Context, user models.User, items []models.ReviewItem) error {
	if r.err != nil {
		return r.err
	}
	r.sent++
	return nil
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	user := models.User{ID: 1}

	ok := &recordingNotifier{name: "ok", accepts: true}
	broken := &recordingNotifier{name: "broken", accepts: true, err: errors.New("down")}
	skipped := &recordingNotifier{name: "skipped"}

	m := NewMulti(logger.NewNop(), ok, broken, skipped)
	assert.True(t, m.Accepts(user))
	require.NoError(t, m.SendDigest(ctx, user, sampleItems()), "one channel delivered")
	assert.Equal(t, 1, ok.sent)
	assert.Zero(t, skipped.sent)

	m = NewMulti(logger.NewNop(), broken)
	err := m.SendDigest(ctx, user, sampleItems())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: down")

	m = NewMulti(logger.NewNop(), skipped)
	assert.False(t, m.Accepts(user))
	assert.ErrorIs(t, m.SendDigest(ctx, user, sampleItems()), ErrNoDestination)
}

func TestMultiLifecycle(t *testing.T) {
	fm := &fakeMailer{}
	e := newEmail(fm, "noreply@ankicode.dev", &Renderer{})
	m := NewMulti(logger.NewNop(), e, &recordingNotifier{name: "plain", accepts: true})

	require.NoError(t, m.Open(context.Background()))
	assert.True(t, fm.dialed)
	require.NoError(t, m.Close())
	assert.True(t, fm.closed)
}

func TestDelivers(t *testing.T) {
	logOnly := NewLog(logger.NewNop(), &Renderer{})
	plain := &recordingNotifier{name: "plain", accepts: true}

	assert.False(t, Delivers(logOnly))
	assert.True(t, Delivers(plain))
	assert.True(t, Delivers(NewMulti(logger.NewNop(), logOnly, plain)))
	assert.False(t, Delivers(NewMulti(logger.NewNop(), logOnly)))
}

func TestMultiLogDoesNotMaskFailure(t *testing.T) {
	ctx := context.Background()
	user := models.User{ID: 1}
	logOnly := NewLog(logger.NewNop(), &Renderer{})
	broken := &recordingNotifier{name: "broken", accepts: true, err: errors.New("down")}

	err := NewMulti(logger.NewNop(), broken, logOnly).SendDigest(ctx, user, sampleItems())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: down")

	require.NoError(t, NewMulti(logger.NewNop(), logOnly).SendDigest(ctx, user, sampleItems()))
}
