package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SlackNotifier sends notifications to Slack via webhook
type SlackNotifier struct {
	webhookURL string
	channel    string
	username   string
	iconEmoji  string
	client     *http.Client
}

// SlackOption is a functional option for SlackNotifier
type SlackOption func(*SlackNotifier)

// WithSlackChannel sets the Slack channel
func WithSlackChannel(channel string) SlackOption {
	return func(s *SlackNotifier) {
		s.channel = channel
	}
}

// WithSlackClient sets the HTTP client
func WithSlackClient(client *http.Client) SlackOption {
	return func(s *SlackNotifier) {
		s.client = client
	}
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	s := &SlackNotifier{
		webhookURL: webhookURL,
		username:   "hitreport",
		iconEmoji:  ":test_tube:",
		client:     &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the name of the notifier
func (s *SlackNotifier) Name() string {
	return "slack"
}

type slackMessage struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Attachments []slackAttachment `json:"attachments"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Text   string       `json:"text,omitempty"`
	Fields []slackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
	TS     int64        `json:"ts,omitempty"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Notify sends a notification to Slack
func (s *SlackNotifier) Notify(ctx context.Context, summary *RunSummary) error {
	color, emoji := "good", ":white_check_mark:"
	if summary.Failed() {
		color, emoji = "danger", ":x:"
	}

	fields := []slackField{
		{Title: "Total Tests", Value: fmt.Sprintf("%d", summary.TotalTests), Short: true},
		{Title: "Passed", Value: fmt.Sprintf("%d", summary.PassedTests), Short: true},
		{Title: "Failed", Value: fmt.Sprintf("%d", summary.FailedTests), Short: true},
		{Title: "Duration", Value: summary.Duration.Round(time.Millisecond).String(), Short: true},
	}
	if summary.FlakyTests > 0 {
		fields = append(fields, slackField{Title: "Flaky", Value: fmt.Sprintf("%d", summary.FlakyTests), Short: true})
	}
	if summary.Platform != "" {
		fields = append(fields, slackField{Title: "Platform", Value: summary.Platform, Short: true})
	}

	var text strings.Builder
	if len(summary.FailedResults) > 0 {
		text.WriteString("*Failed tests:*\n")
		for _, ft := range summary.FailedResults {
			fmt.Fprintf(&text, "• `%s`", ft.Name)
			if ft.File != "" {
				fmt.Fprintf(&text, " (%s)", ft.File)
			}
			text.WriteString("\n")
			for _, err := range ft.Errors {
				fmt.Fprintf(&text, "  - %s\n", err)
			}
		}
	}

	footer := "hitreport"
	if summary.RunID != "" {
		footer += " · run " + summary.RunID
	}

	msg := slackMessage{
		Channel:   s.channel,
		Username:  s.username,
		IconEmoji: s.iconEmoji,
		Attachments: []slackAttachment{{
			Color:  color,
			Title:  fmt.Sprintf("%s %s", emoji, headline(summary)),
			Text:   text.String(),
			Fields: fields,
			Footer: footer,
			TS:     time.Now().Unix(),
		}},
	}

	return postJSON(ctx, s.client, s.webhookURL, msg, http.StatusOK)
}
