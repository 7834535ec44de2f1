package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// eventLog records every hook as "Hook:detail"
type eventLog struct {
	reporter.Base
	events []string
	fail   string
	status suite.Status
}

func (e *eventLog) add(event string) error {
	e.events = append(e.events, event)
	if e.fail != "" && e.fail == event {
		return errors.New("write failed")
	}
	return nil
}

func (e *eventLog) OnBegin(_ *config.FullConfig, s *suite.Suite) error {
	return e.add(fmt.Sprintf("OnBegin:%d", len(s.AllTests())))
}

func (e *eventLog) OnTestBegin(t *suite.Test) error {
	return e.add("OnTestBegin:" + t.Title)
}

func (e *eventLog) OnTestEnd(t *suite.Test, r *suite.TestResult) error {
	return e.add("OnTestEnd:" + t.Title + ":" + string(r.Status))
}

func (e *eventLog) OnStdOut(chunk string, t *suite.Test) error {
	return e.add("OnStdOut:" + t.Title + ":" + chunk)
}

func (e *eventLog) OnStdErr(chunk string, t *suite.Test) error {
	return e.add("OnStdErr:" + t.Title + ":" + chunk)
}

func (e *eventLog) OnError(err *suite.TestError) error {
	return e.add("OnError:" + err.Message)
}

func (e *eventLog) OnEnd(r *suite.FullResult) error {
	e.status = r.Status
	return e.add("OnEnd:" + string(r.Status))
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func replayRun() *suite.Run {
	root := suite.NewRoot()
	file := root.AddSuite(suite.KindFile, "a.spec.ts")
	first := file.AddTest("first", suite.Location{File: "a.spec.ts", Line: 1, Column: 1})
	second := file.AddTest("second", suite.Location{File: "a.spec.ts", Line: 5, Column: 1})
	file.AddTest("third", suite.Location{File: "a.spec.ts", Line: 9, Column: 1})

	return &suite.Run{
		Suite: root,
		Records: []suite.Record{
			{Test: first, Result: &suite.TestResult{
				Status:   suite.StatusPassed,
				Duration: 10 * time.Millisecond,
				Stdout:   []string{"hello"},
				Stderr:   []string{"warn"},
			}},
			{Test: second, Result: &suite.TestResult{
				Status:   suite.StatusFailed,
				Duration: 30 * time.Millisecond,
				Errors:   []*suite.TestError{{Message: "boom"}},
			}},
		},
	}
}

func TestRunner_List(t *testing.T) {
	log := &eventLog{}
	r := NewRunner(log, &Config{Now: fixedClock})

	result, err := r.List(context.Background(), &config.FullConfig{}, replayRun().Suite)
	require.NoError(t, err)

	assert.Equal(t, []string{"OnBegin:3", "OnEnd:passed"}, log.events)
	assert.Equal(t, suite.StatusPassed, result.Status)
	assert.Equal(t, 3, result.Total)
	assert.Empty(t, result.ReporterErrors)
}

func TestRunner_Replay(t *testing.T) {
	log := &eventLog{}
	r := NewRunner(log, &Config{Now: fixedClock})

	run := replayRun()
	run.Errors = []*suite.TestError{{Message: "global"}}

	result, err := r.Replay(context.Background(), &config.FullConfig{}, run)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"OnBegin:3",
		"OnError:global",
		"OnTestBegin:first",
		"OnStdOut:first:hello",
		"OnStdErr:first:warn",
		"OnTestEnd:first:passed",
		"OnTestBegin:second",
		"OnTestEnd:second:failed",
		"OnEnd:failed",
	}, log.events)

	assert.Equal(t, suite.StatusFailed, result.Status)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.NotRun)
	assert.Equal(t, 1, result.Errors)
	assert.Equal(t, 40*time.Millisecond, result.Duration)
}

func TestRunner_Replay_AllPassed(t *testing.T) {
	log := &eventLog{}
	run := replayRun()
	run.Records = run.Records[:1]

	result, err := NewRunner(log, nil).Replay(context.Background(), &config.FullConfig{}, run)
	require.NoError(t, err)
	assert.Equal(t, suite.StatusPassed, result.Status)
	assert.Equal(t, suite.StatusPassed, log.status)
}

func TestRunner_Replay_CollectsReporterErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	quiet := &eventLog{}
	loud := &eventLog{fail: "OnTestBegin:first"}
	mux := reporter.NewMultiplexer([]reporter.Reporter{loud, quiet}, reporter.WithLogger(zap.New(core)))

	result, err := NewRunner(mux, &Config{Logger: zap.New(core)}).Replay(context.Background(), &config.FullConfig{}, replayRun())
	require.NoError(t, err)

	require.Len(t, result.ReporterErrors, 1)
	var hookErr *reporter.HookError
	require.ErrorAs(t, result.ReporterErrors[0], &hookErr)
	assert.Equal(t, "OnTestBegin", hookErr.Hook)
	assert.Equal(t, 0, hookErr.Index)

	// the failing reporter did not stop delivery
	assert.Equal(t, loud.events, quiet.events)
	assert.Contains(t, quiet.events, "OnEnd:failed")

	assert.Equal(t, 1, logs.FilterMessage("reporter hook failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("reporters failed during run").Len())
}

func TestRunner_Replay_Bail(t *testing.T) {
	log := &eventLog{}
	run := replayRun()
	third := run.Suite.AllTests()[2]
	run.Records = append(run.Records, suite.Record{Test: third, Result: &suite.TestResult{Status: suite.StatusPassed}})

	result, err := NewRunner(log, &Config{Bail: true}).Replay(context.Background(), &config.FullConfig{}, run)
	require.NoError(t, err)

	assert.NotContains(t, log.events, "OnTestBegin:third")
	assert.Equal(t, 1, result.NotRun)
	assert.Equal(t, "OnEnd:failed", log.events[len(log.events)-1])
}

func TestRunner_Replay_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log := &eventLog{}
	result, err := NewRunner(log, nil).Replay(ctx, &config.FullConfig{}, replayRun())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, suite.StatusInterrupted, result.Status)
	assert.Equal(t, []string{"OnBegin:3", "OnEnd:interrupted"}, log.events)
	assert.Equal(t, 3, result.NotRun)
}
