package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/azure/brand-pulse/internal/config"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/gomail.v2"
)

// Service handles sending notifications via various channels
type Service struct {
	config *config.Config
	client *resty.Client
	send   func(m *gomail.Message) error
}

// Ensure Service implements NotificationInterface
var _ NotificationInterface = (*Service)(nil)

// titleCase upper-cases the first letter of each word. Casers are stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// TeamsMessage represents a Microsoft Teams message
type TeamsMessage struct {
	Type     string         `json:"@type"`
	Context  string         `json:"@context"`
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Sections []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	s := &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
		return d.DialAndSend(m)
	}
	return s
}

// SendReport sends a report via configured notification channels
func (s *Service) SendReport(ctx context.Context, report *models.Report) error {
	var errors []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(ctx, report); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errors = append(errors, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent report to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent report via email")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToTeams(ctx context.Context, report *models.Report) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(buildTeamsMessage(report)).
		Post(s.config.TeamsWebhookURL)

	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.StatusCode() != 200 {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func buildTeamsMessage(report *models.Report) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Brand Report - %s", report.Name),
		Text:    fmt.Sprintf("%d mentions across %d social and %d news analyses (%s)", report.TotalMentions,
			len(report.SocialAnalyses), len(report.NewsAnalyses), report.DateRange),
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Summary",
		Facts: []TeamsFact{
			{Name: "Total Mentions", Value: fmt.Sprintf("%d", report.TotalMentions)},
			{Name: "Positive", Value: fmt.Sprintf("%d", report.SentimentSummary.Positive)},
			{Name: "Negative", Value: fmt.Sprintf("%d", report.SentimentSummary.Negative)},
			{Name: "Neutral", Value: fmt.Sprintf("%d", report.SentimentSummary.Neutral)},
			{Name: "Generated", Value: report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		},
		Markdown: true,
	})

	if report.Format == "detailed" && len(report.SocialAnalyses) > 0 {
		var brands []string
		for _, a := range report.SocialAnalyses {
			brands = append(brands, fmt.Sprintf("**%s** - %d mentions (%d positive, %d negative)",
				a.Brand, a.Summary.TotalMentions, a.Summary.Sentiment.Positive, a.Summary.Sentiment.Negative))
		}

		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Social Media",
			ActivityText:  strings.Join(brands, "\n\n"),
			Markdown:      true,
		})
	}

	for section, errText := range report.SectionErrors {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle:    fmt.Sprintf("%s section unavailable", titleCase(section)),
			ActivitySubtitle: errText,
		})
	}

	return message
}

func (s *Service) sendEmail(report *models.Report) error {
	subject := fmt.Sprintf("Brand Report - %s (%d mentions)", report.Name, report.TotalMentions)

	htmlBody, err := buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const emailTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Name}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #0078d4; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .item { border-left: 4px solid #0078d4; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .error { border-left-color: #d13438; }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Name}}</h1>
        <p>{{.DateRange}} report generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="summary">
        <h2>Executive Summary</h2>
        <p><strong>Total Website Analyses:</strong> {{len .WebsiteAnalyses}}</p>
        <p><strong>Total Social Media Analyses:</strong> {{len .SocialAnalyses}}</p>
        <p><strong>Total News Analyses:</strong> {{len .NewsAnalyses}}</p>
        <p><strong>Total Mentions:</strong> {{.TotalMentions}}</p>
        <p><strong>Positive:</strong> {{.SentimentSummary.Positive}} | <strong>Negative:</strong> {{.SentimentSummary.Negative}} | <strong>Neutral:</strong> {{.SentimentSummary.Neutral}}</p>
    </div>

    {{range $section, $err := .SectionErrors}}
    <div class="item error"><strong>{{$section | title}} section unavailable:</strong> {{$err}}</div>
    {{end}}

    {{if eq .Format "detailed"}}
    {{if .WebsiteAnalyses}}
    <h2>Website Analyses</h2>
    {{range .WebsiteAnalyses}}
    <div class="item">
        <strong>{{.URL}}</strong>
        {{with .Metrics}}<p>Performance: {{.Performance}} | SEO: {{.SEO}} | Accessibility: {{.Accessibility}}</p>{{end}}
    </div>
    {{end}}
    {{end}}

    {{if .SocialAnalyses}}
    <h2>Social Media Analyses</h2>
    {{range .SocialAnalyses}}
    <div class="item">
        <strong>{{.Brand}}</strong>
        <p>Total Mentions: {{.Summary.TotalMentions}}</p>
        <p>Positive: {{.Summary.Sentiment.Positive}} | Negative: {{.Summary.Sentiment.Negative}} | Neutral: {{.Summary.Sentiment.Neutral}}</p>
    </div>
    {{end}}
    {{end}}

    {{if .NewsAnalyses}}
    <h2>News Analyses</h2>
    {{range .NewsAnalyses}}
    <div class="item">
        <strong>{{.Query}}</strong>
        <p>Total Articles: {{.Summary.TotalArticles}}</p>
        {{range .Summary.TopSources}}<p>{{.Source}}: {{.Count}} articles</p>{{end}}
    </div>
    {{end}}
    {{end}}
    {{end}}

    <hr>
    <p><small>This report was generated automatically by Brand Pulse.</small></p>
</body>
</html>
`

var emailHTML = template.Must(template.New("email").Funcs(template.FuncMap{
	"title": titleCase,
}).Parse(emailTemplate))

func buildEmailHTML(report *models.Report) (string, error) {
	var buf bytes.Buffer
	if err := emailHTML.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildEmailText(report *models.Report) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("%s\n", report.Name))
	text.WriteString(fmt.Sprintf("Generated: %s (%s)\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"), report.DateRange))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Website Analyses: %d\n", len(report.WebsiteAnalyses)))
	text.WriteString(fmt.Sprintf("Social Media Analyses: %d\n", len(report.SocialAnalyses)))
	text.WriteString(fmt.Sprintf("News Analyses: %d\n", len(report.NewsAnalyses)))
	text.WriteString(fmt.Sprintf("Total Mentions: %d\n", report.TotalMentions))
	text.WriteString(fmt.Sprintf("Positive: %d | Negative: %d | Neutral: %d\n",
		report.SentimentSummary.Positive, report.SentimentSummary.Negative, report.SentimentSummary.Neutral))

	for section, errText := range report.SectionErrors {
		text.WriteString(fmt.Sprintf("%s section unavailable: %s\n", titleCase(section), errText))
	}

	if report.Format == "detailed" {
		if len(report.SocialAnalyses) > 0 {
			text.WriteString("\nSOCIAL MEDIA\n")
			text.WriteString("============\n")
			for i, a := range report.SocialAnalyses {
				text.WriteString(fmt.Sprintf("%d. %s: %d mentions (%d positive, %d negative, %d neutral)\n", i+1, a.Brand,
					a.Summary.TotalMentions, a.Summary.Sentiment.Positive, a.Summary.Sentiment.Negative, a.Summary.Sentiment.Neutral))
			}
		}

		if len(report.NewsAnalyses) > 0 {
			text.WriteString("\nNEWS\n")
			text.WriteString("====\n")
			for i, a := range report.NewsAnalyses {
				text.WriteString(fmt.Sprintf("%d. %s: %d articles\n", i+1, a.Query, a.Summary.TotalArticles))
				for _, src := range a.Summary.TopSources {
					text.WriteString(fmt.Sprintf("   %s: %d articles\n", src.Source, src.Count))
				}
			}
		}
	}

	text.WriteString("\n---\nThis report was generated automatically by Brand Pulse.\n")

	return text.String()
}
