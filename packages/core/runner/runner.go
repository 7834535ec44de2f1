package runner

import (
	"context"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Runner struct {
	reporter reporter.Reporter
	config   *Config
}

type Config struct {
	// Bail stops delivering results after the first failed test
	Bail   bool
	Logger *zap.Logger
	// Now is the clock used for the run start time
	Now func() time.Time
}

func NewRunner(rep reporter.Reporter, cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Runner{
		reporter: rep,
		config:   cfg,
	}
}

type RunResult struct {
	Status   suite.Status
	Duration time.Duration
	Total    int
	Passed   int
	Failed   int
	Flaky    int
	Skipped  int
	// NotRun counts tests that never reached OnTestEnd
	NotRun int
	Errors int
	// ReporterErrors holds every hook failure reported by the dispatcher
	ReporterErrors []error
}

func (r *RunResult) collect(err error) {
	r.ReporterErrors = append(r.ReporterErrors, multierr.Errors(err)...)
}

func (r *RunResult) count(result *suite.TestResult) {
	switch {
	case result.Status == suite.StatusSkipped:
		r.Skipped++
	case result.Status == suite.StatusPassed && result.Retry > 0:
		r.Flaky++
	case result.Status == suite.StatusPassed:
		r.Passed++
	default:
		r.Failed++
	}
}

// List announces the suite to the reporter and ends the run without
// executing anything
func (r *Runner) List(ctx context.Context, cfg *config.FullConfig, s *suite.Suite) (*RunResult, error) {
	result := &RunResult{Status: suite.StatusPassed, Total: len(s.AllTests())}
	start := r.config.Now()

	result.collect(r.reporter.OnBegin(cfg, s))
	if ctx.Err() != nil {
		result.Status = suite.StatusInterrupted
	}
	result.collect(r.reporter.OnEnd(&suite.FullResult{
		Status:    result.Status,
		StartTime: start,
	}))

	r.logErrors(result)
	return result, ctx.Err()
}

// Replay delivers the recorded events of run to the reporter in order
func (r *Runner) Replay(ctx context.Context, cfg *config.FullConfig, run *suite.Run) (*RunResult, error) {
	result := &RunResult{Status: suite.StatusPassed, Total: len(run.Suite.AllTests())}
	start := r.config.Now()

	result.collect(r.reporter.OnBegin(cfg, run.Suite))

	for _, e := range run.Errors {
		result.Errors++
		result.collect(r.reporter.OnError(e))
	}

	delivered := 0
	for _, rec := range run.Records {
		if ctx.Err() != nil {
			result.Status = suite.StatusInterrupted
			break
		}
		if r.config.Bail && result.Failed > 0 {
			r.config.Logger.Info("bailing after first failure",
				zap.Int("remaining", len(run.Records)-delivered))
			break
		}
		r.replayRecord(result, rec)
		delivered++
	}
	result.NotRun = result.Total - (result.Passed + result.Failed + result.Flaky + result.Skipped)

	if result.Status != suite.StatusInterrupted && (result.Failed > 0 || result.Errors > 0) {
		result.Status = suite.StatusFailed
	}

	result.collect(r.reporter.OnEnd(&suite.FullResult{
		Status:    result.Status,
		StartTime: start,
		Duration:  result.Duration,
	}))

	r.logErrors(result)
	return result, ctx.Err()
}

func (r *Runner) replayRecord(result *RunResult, rec suite.Record) {
	result.collect(r.reporter.OnTestBegin(rec.Test))

	if out, ok := r.reporter.(reporter.OutputReporter); ok {
		for _, chunk := range rec.Result.Stdout {
			result.collect(out.OnStdOut(chunk, rec.Test))
		}
		for _, chunk := range rec.Result.Stderr {
			result.collect(out.OnStdErr(chunk, rec.Test))
		}
	}

	result.collect(r.reporter.OnTestEnd(rec.Test, rec.Result))
	result.count(rec.Result)
	result.Duration += rec.Result.Duration
}

func (r *Runner) logErrors(result *RunResult) {
	if len(result.ReporterErrors) == 0 {
		return
	}
	r.config.Logger.Warn("reporters failed during run",
		zap.Int("errors", len(result.ReporterErrors)),
		zap.String("status", string(result.Status)))
}
