// Package notify provides reporters that post a run summary to chat
// webhooks (Slack, Microsoft Teams) when the run ends.
package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// NotifyOn specifies when to send notifications
type NotifyOn string

const (
	// NotifyAlways sends notifications for every run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when tests fail
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when tests pass
	NotifySuccess NotifyOn = "success"
)

// ParseNotifyOn validates a notifyOn value; empty means failure
func ParseNotifyOn(s string) (NotifyOn, error) {
	switch NotifyOn(s) {
	case "":
		return NotifyFailure, nil
	case NotifyAlways, NotifyFailure, NotifySuccess:
		return NotifyOn(s), nil
	}
	return "", fmt.Errorf("invalid notifyOn %q (use always, failure or success)", s)
}

// RunSummary represents the summary of a run for notifications
type RunSummary struct {
	RunID         string        `json:"run_id,omitempty"`
	Status        string        `json:"status"`
	TotalTests    int           `json:"total_tests"`
	PassedTests   int           `json:"passed_tests"`
	FailedTests   int           `json:"failed_tests"`
	FlakyTests    int           `json:"flaky_tests"`
	SkippedTests  int           `json:"skipped_tests"`
	Duration      time.Duration `json:"duration"`
	Platform      string        `json:"platform,omitempty"`
	FailedResults []FailedTest  `json:"failed_results,omitempty"`
}

// Failed reports whether the run should be announced as a failure
func (s *RunSummary) Failed() bool {
	return s.FailedTests > 0 || (s.Status != "" && s.Status != "passed")
}

// FailedTest represents a failed test for notifications
type FailedTest struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Errors []string `json:"errors,omitempty"`
}

// Notifier is the interface for notification services
type Notifier interface {
	// Notify sends a notification about a finished run
	Notify(ctx context.Context, summary *RunSummary) error

	// Name returns the name of the notifier
	Name() string
}

// Manager applies the NotifyOn policy and fans out to notifiers
type Manager struct {
	notifiers []Notifier
	notifyOn  NotifyOn
}

// NewManager creates a new notification manager
func NewManager(notifyOn NotifyOn, notifiers ...Notifier) *Manager {
	return &Manager{
		notifiers: notifiers,
		notifyOn:  notifyOn,
	}
}

// ShouldNotify reports whether summary passes the policy
func (m *Manager) ShouldNotify(summary *RunSummary) bool {
	switch m.notifyOn {
	case NotifyAlways:
		return true
	case NotifySuccess:
		return !summary.Failed()
	default:
		return summary.Failed()
	}
}

// Notify sends to every notifier, continuing past failures
func (m *Manager) Notify(ctx context.Context, summary *RunSummary) error {
	if !m.ShouldNotify(summary) {
		return nil
	}

	var errs error
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, summary); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errs
}
