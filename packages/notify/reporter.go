package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"github.com/tidwall/gjson"
)

// Environment variables holding webhook URLs when the reporter argument has none
const (
	EnvSlackWebhook = "SLACK_WEBHOOK"
	EnvTeamsWebhook = "TEAMS_WEBHOOK"
)

// maxFailures caps the failed tests listed in one message
const maxFailures = 10

// Options configures a notification reporter
type Options struct {
	Webhook  string   `json:"webhook"`
	Channel  string   `json:"channel"`
	NotifyOn NotifyOn `json:"notifyOn"`
}

// Reporter builds a RunSummary from the run and hands it to a Manager
type Reporter struct {
	reporter.Base
	name     string
	manager  *Manager
	platform string
	config   *config.FullConfig
	summary  RunSummary
}

// NewReporter creates a reporter that notifies through manager
func NewReporter(name string, manager *Manager, platform string) *Reporter {
	return &Reporter{name: name, manager: manager, platform: platform}
}

func (r *Reporter) Name() string {
	return r.name
}

// PrintsToStdio is always false, messages go to the webhook
func (r *Reporter) PrintsToStdio() bool {
	return false
}

func (r *Reporter) OnBegin(cfg *config.FullConfig, s *suite.Suite) error {
	r.config = cfg
	r.summary = RunSummary{TotalTests: len(s.AllTests()), Platform: r.platform}
	if cfg != nil {
		r.summary.RunID = cfg.RunID
	}
	return nil
}

func (r *Reporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	switch {
	case result.Status == suite.StatusSkipped:
		r.summary.SkippedTests++
	case result.Status == suite.StatusPassed && result.Retry > 0:
		r.summary.FlakyTests++
	case result.Status == suite.StatusPassed:
		r.summary.PassedTests++
	default:
		r.summary.FailedTests++
		if len(r.summary.FailedResults) < maxFailures {
			r.summary.FailedResults = append(r.summary.FailedResults, failedTest(r.config, t, result))
		}
	}
	return nil
}

func (r *Reporter) OnEnd(result *suite.FullResult) error {
	r.summary.Status = string(result.Status)
	r.summary.Duration = result.Duration

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	return r.manager.Notify(ctx, &r.summary)
}

// Summary returns the summary collected so far
func (r *Reporter) Summary() RunSummary {
	return r.summary
}

func failedTest(cfg *config.FullConfig, t *suite.Test, result *suite.TestResult) FailedTest {
	file := t.Location.File
	if cfg != nil && cfg.RootDir != "" && filepath.IsAbs(file) {
		if rel, err := filepath.Rel(cfg.RootDir, file); err == nil {
			file = filepath.ToSlash(rel)
		}
	}

	ft := FailedTest{
		Name: strings.Join(t.Titles(), " › "),
		File: fmt.Sprintf("%s:%d", file, t.Location.Line),
	}
	for _, e := range result.Errors {
		ft.Errors = append(ft.Errors, firstLine(e.Message))
	}
	if len(ft.Errors) == 0 {
		ft.Errors = []string{"Test " + string(result.Status)}
	}
	return ft
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseOptions(arg any, getenv func(string) string, webhookEnv string) (Options, error) {
	var opts Options
	if arg != nil {
		data, err := json.Marshal(arg)
		if err != nil {
			return opts, fmt.Errorf("invalid notification argument: %w", err)
		}
		parsed := gjson.ParseBytes(data)
		opts.Webhook = parsed.Get("webhook").String()
		opts.Channel = parsed.Get("channel").String()
		opts.NotifyOn = NotifyOn(parsed.Get("notifyOn").String())
	}
	if opts.Webhook == "" {
		opts.Webhook = getenv(webhookEnv)
	}
	if opts.Webhook == "" {
		return opts, fmt.Errorf("webhook is required (set it in the reporter options or %s)", webhookEnv)
	}

	notifyOn, err := ParseNotifyOn(string(opts.NotifyOn))
	if err != nil {
		return opts, err
	}
	opts.NotifyOn = notifyOn
	return opts, nil
}

// SlackConstructor returns the constructor for the "slack" reporter.
// getenv supplies the webhook fallback and the CI platform.
func SlackConstructor(getenv func(string) string) reporter.Constructor {
	return func(arg any, _ reporter.Env) (reporter.Reporter, error) {
		opts, err := parseOptions(arg, getenv, EnvSlackWebhook)
		if err != nil {
			return nil, err
		}
		var slackOpts []SlackOption
		if opts.Channel != "" {
			slackOpts = append(slackOpts, WithSlackChannel(opts.Channel))
		}
		manager := NewManager(opts.NotifyOn, NewSlackNotifier(opts.Webhook, slackOpts...))
		return NewReporter("slack", manager, config.DetectPlatform(getenv)), nil
	}
}

// TeamsConstructor returns the constructor for the "teams" reporter
func TeamsConstructor(getenv func(string) string) reporter.Constructor {
	return func(arg any, _ reporter.Env) (reporter.Reporter, error) {
		opts, err := parseOptions(arg, getenv, EnvTeamsWebhook)
		if err != nil {
			return nil, err
		}
		manager := NewManager(opts.NotifyOn, NewTeamsNotifier(opts.Webhook))
		return NewReporter("teams", manager, config.DetectPlatform(getenv)), nil
	}
}
