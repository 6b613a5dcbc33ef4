package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/example/ankicode/pkg/models"
)

// EmailConfig is the SMTP account digests are sent from
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// SSL uses implicit TLS (port 465); otherwise STARTTLS is used when offered
	SSL     bool
	From    string
	Timeout time.Duration
}

// mailSender is the part of *mail.Client the notifier uses
type mailSender interface {
	DialWithContext(ctx context.Context) error
	Send(msgs ...*mail.Msg) error
	Close() error
}

// Email sends digests over SMTP. The connection is opened by Open and
// released by Close; SendDigest requires an open connection.
type Email struct {
	mu       sync.Mutex
	client   mailSender
	from     string
	renderer *Renderer
	open     bool
}

// NewEmail creates an SMTP notifier. No connection is made until Open.
func NewEmail(cfg EmailConfig, renderer *Renderer) (*Email, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("sender address is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
	}
	if cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return newEmail(client, cfg.From, renderer), nil
}

func newEmail(client mailSender, from string, renderer *Renderer) *Email {
	return &Email{client: client, from: from, renderer: renderer}
}

func (e *Email) Name() string { return "email" }

func (e *Email) Accepts(user models.User) bool {
	return user.DigestEmail() != ""
}

// Open connects to the SMTP server
func (e *Email) Open(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open {
		return nil
	}
	if err := e.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	e.open = true
	return nil
}

// Close quits the SMTP session
func (e *Email) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return nil
	}
	e.open = false
	if err := e.client.Close(); err != nil {
		return fmt.Errorf("failed to close smtp connection: %w", err)
	}
	return nil
}

func (e *Email) SendDigest(ctx context.Context, user models.User, items []models.ReviewItem) error {
	to := user.DigestEmail()
	if to == "" {
		return ErrNoDestination
	}

	text, err := e.renderer.Text(user, items)
	if err != nil {
		return err
	}
	html, err := e.renderer.HTML(user, items)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("AnkiCode", e.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(e.renderer.Subject(items))
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	// one SMTP session carries one transaction at a time
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return errors.New("smtp connection is not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.client.Send(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
