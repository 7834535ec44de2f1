package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// TeamsNotifier sends notifications to Microsoft Teams via webhook
type TeamsNotifier struct {
	webhookURL string
	client     *http.Client
}

// TeamsOption is a functional option for TeamsNotifier
type TeamsOption func(*TeamsNotifier)

// WithTeamsClient sets the HTTP client
func WithTeamsClient(client *http.Client) TeamsOption {
	return func(t *TeamsNotifier) {
		t.client = client
	}
}

// NewTeamsNotifier creates a new Teams notifier
func NewTeamsNotifier(webhookURL string, opts ...TeamsOption) *TeamsNotifier {
	t := &TeamsNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Name returns the name of the notifier
func (t *TeamsNotifier) Name() string {
	return "teams"
}

// teamsMessage wraps an Adaptive Card
type teamsMessage struct {
	Type        string      `json:"type"`
	Attachments []teamsCard `json:"attachments"`
}

type teamsCard struct {
	ContentType string           `json:"contentType"`
	Content     teamsCardContent `json:"content"`
}

type teamsCardContent struct {
	Schema  string       `json:"$schema"`
	Type    string       `json:"type"`
	Version string       `json:"version"`
	Body    []teamsBlock `json:"body"`
}

type teamsBlock struct {
	Type      string      `json:"type"`
	Size      string      `json:"size,omitempty"`
	Weight    string      `json:"weight,omitempty"`
	Text      string      `json:"text,omitempty"`
	Color     string      `json:"color,omitempty"`
	Wrap      bool        `json:"wrap,omitempty"`
	Separator bool        `json:"separator,omitempty"`
	Facts     []teamsFact `json:"facts,omitempty"`
}

type teamsFact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Notify sends a notification to Microsoft Teams
func (t *TeamsNotifier) Notify(ctx context.Context, summary *RunSummary) error {
	color := "good"
	if summary.Failed() {
		color = "attention"
	}

	facts := []teamsFact{
		{Title: "Total Tests", Value: fmt.Sprintf("%d", summary.TotalTests)},
		{Title: "Passed", Value: fmt.Sprintf("%d", summary.PassedTests)},
		{Title: "Failed", Value: fmt.Sprintf("%d", summary.FailedTests)},
		{Title: "Skipped", Value: fmt.Sprintf("%d", summary.SkippedTests)},
		{Title: "Duration", Value: summary.Duration.Round(time.Millisecond).String()},
	}
	if summary.Platform != "" {
		facts = append(facts, teamsFact{Title: "Platform", Value: summary.Platform})
	}

	body := []teamsBlock{
		{Type: "TextBlock", Size: "Large", Weight: "Bolder", Text: headline(summary), Color: color},
		{Type: "FactSet", Separator: true, Facts: facts},
	}

	for _, ft := range summary.FailedResults {
		text := fmt.Sprintf("- `%s`", ft.Name)
		if ft.File != "" {
			text += fmt.Sprintf(" (%s)", ft.File)
		}
		for _, err := range ft.Errors {
			text += "\n  - " + err
		}
		body = append(body, teamsBlock{Type: "TextBlock", Text: text, Wrap: true})
	}

	msg := teamsMessage{
		Type: "message",
		Attachments: []teamsCard{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			Content: teamsCardContent{
				Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
				Type:    "AdaptiveCard",
				Version: "1.2",
				Body:    body,
			},
		}},
	}

	return postJSON(ctx, t.client, t.webhookURL, msg, http.StatusOK, http.StatusAccepted)
}
