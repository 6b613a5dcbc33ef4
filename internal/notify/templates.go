package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/example/ankicode/pkg/models"
)

const textDigest = `Hi {{.Name}},

You have {{.Count}} problem{{if ne .Count 1}}s{{end}} scheduled for review:
{{range .Items}}
- #{{.Number}} {{.Title}} ({{.Difficulty}})
    {{if .Scheduled}}Scheduled for: {{.Scheduled}}{{else}}First attempt, deadline {{.Deadline}}{{end}}
{{- if .Link}}
    Link: {{.Link}}{{end}}
{{end}}
{{- if .FrontendURL}}
Open AnkiCode: {{.FrontendURL}}
{{end}}
Happy coding!
`

const htmlDigest = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; color: #374151; max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="background-color: #4f46e5; color: white; padding: 24px; border-radius: 8px; text-align: center; font-size: 24px;">Review Reminders</h1>
<p>Hi {{.Name}},</p>
<p>You have <strong>{{.Count}}</strong> problem{{if ne .Count 1}}s{{end}} scheduled for review:</p>
<table style="width: 100%; border-collapse: collapse;">
{{- range .Items}}
<tr><td style="padding: 12px; border-bottom: 1px solid #e5e7eb;">
<div style="font-weight: 600;">#{{.Number}} {{.Title}}</div>
<div style="font-size: 13px; color: #6b7280;">Difficulty: <span style="color: {{.Color}}">{{.Difficulty}}</span></div>
<div style="font-size: 13px; color: #6b7280;">{{if .Scheduled}}Scheduled for: {{.Scheduled}}{{else}}First attempt, deadline {{.Deadline}}{{end}}</div>
{{- if .Link}}
<div style="margin-top: 8px;"><a href="{{.Link}}" style="color: #4f46e5;">View on LeetCode</a></div>
{{- end}}
</td></tr>
{{- end}}
</table>
{{- if .FrontendURL}}
<p style="text-align: center;"><a href="{{.FrontendURL}}" style="display: inline-block; background-color: #4f46e5; color: white; padding: 12px 24px; border-radius: 6px;">View in AnkiCode</a></p>
{{- end}}
<p style="font-size: 13px; color: #6b7280; text-align: center;">Happy coding!</p>
</body>
</html>
`

var (
	textTmpl = texttemplate.Must(texttemplate.New("digest.txt").Parse(textDigest))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("digest.html").Parse(htmlDigest))
)

const dateLayout = "Mon, Jan 2 2006 15:04"

// Renderer turns a review set into digest bodies
type Renderer struct {
	FrontendURL string
	Location    *time.Location
}

type digestView struct {
	Name        string
	Count       int
	Items       []itemView
	FrontendURL string
}

type itemView struct {
	Number     int
	Title      string
	Difficulty models.Difficulty
	Color      htmltemplate.CSS
	Scheduled  string
	Deadline   string
	Link       string
}

func (r *Renderer) view(user models.User, items []models.ReviewItem) digestView {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	name := user.Name
	if name == "" {
		name = "there"
	}

	v := digestView{Name: name, Count: len(items), FrontendURL: r.FrontendURL}
	for _, it := range items {
		p := it.Problem
		iv := itemView{
			Number:     p.LeetcodeID,
			Title:      p.Name,
			Difficulty: p.Difficulty,
			Color:      difficultyColor(p.Difficulty),
			Deadline:   p.Deadline.In(loc).Format("Mon, Jan 2 2006"),
			Link:       p.URL(),
		}
		if it.Reminder != nil {
			iv.Scheduled = it.Reminder.ScheduledFor.In(loc).Format(dateLayout)
		}
		v.Items = append(v.Items, iv)
	}
	return v
}

// Subject returns the digest subject line
func (r *Renderer) Subject(items []models.ReviewItem) string {
	if len(items) == 1 {
		return "You have 1 problem to review"
	}
	return fmt.Sprintf("You have %d problems to review", len(items))
}

// Text renders the plain-text body
func (r *Renderer) Text(user models.User, items []models.ReviewItem) (string, error) {
	var buf bytes.Buffer
	if err := textTmpl.Execute(&buf, r.view(user, items)); err != nil {
		return "", fmt.Errorf("failed to render text digest: %w", err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}

// HTML renders the HTML body
func (r *Renderer) HTML(user models.User, items []models.ReviewItem) (string, error) {
	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, r.view(user, items)); err != nil {
		return "", fmt.Errorf("failed to render html digest: %w", err)
	}
	return buf.String(), nil
}

func difficultyColor(d models.Difficulty) htmltemplate.CSS {
	switch d {
	case models.DifficultyEasy:
		return "#10b981"
	case models.DifficultyMedium:
		return "#f59e0b"
	}
	return "#ef4444"
}
