// Package metrics aggregates a run's test results and exports them to
// monitoring systems: a Prometheus textfile or the Datadog series API.
package metrics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
)

// maxRecordedMs is the largest test duration the histogram tracks
const maxRecordedMs = 60 * 60 * 1000

// Aggregate is the exported view of one run
type Aggregate struct {
	RunID         string
	Status        string
	Total         int64
	Passed        int64
	Failed        int64
	Flaky         int64
	Skipped       int64
	TimedOut      int64
	Duration      time.Duration
	MinDurationMs float64
	MaxDurationMs float64
	AvgDurationMs float64
	P50DurationMs float64
	P95DurationMs float64
	P99DurationMs float64
	ByProject     map[string]*ProjectAggregate
}

// ProjectAggregate holds per-project counts. Tests outside a project are
// grouped under the empty name.
type ProjectAggregate struct {
	Name          string
	Total         int64
	Passed        int64
	Failed        int64
	AvgDurationMs float64
}

// Projects returns the per-project aggregates sorted by name
func (a *Aggregate) Projects() []*ProjectAggregate {
	out := make([]*ProjectAggregate, 0, len(a.ByProject))
	for _, p := range a.ByProject {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Exporter is the interface for metrics exporters
type Exporter interface {
	// Export sends the aggregate to the target destination
	Export(ctx context.Context, aggregate *Aggregate) error

	// Name returns the name of the exporter
	Name() string
}

// Collector accumulates test results into an Aggregate
type Collector struct {
	aggregate  *Aggregate
	histogram  *hdrhistogram.Histogram
	durationMs float64
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{
		aggregate: &Aggregate{ByProject: make(map[string]*ProjectAggregate)},
		histogram: hdrhistogram.New(1, maxRecordedMs, 3),
	}
}

// Record adds one finished test
func (c *Collector) Record(t *suite.Test, result *suite.TestResult) {
	a := c.aggregate
	a.Total++

	switch {
	case result.Status == suite.StatusSkipped:
		a.Skipped++
	case result.Status == suite.StatusPassed && result.Retry > 0:
		a.Flaky++
	case result.Status == suite.StatusPassed:
		a.Passed++
	case result.Status == suite.StatusTimedOut:
		a.TimedOut++
		a.Failed++
	default:
		a.Failed++
	}

	ms := float64(result.Duration) / float64(time.Millisecond)
	if a.Total == 1 || ms < a.MinDurationMs {
		a.MinDurationMs = ms
	}
	if ms > a.MaxDurationMs {
		a.MaxDurationMs = ms
	}
	c.durationMs += ms
	a.AvgDurationMs = c.durationMs / float64(a.Total)
	_ = c.histogram.RecordValue(max(result.Duration.Milliseconds(), 1))

	name := t.ProjectName()
	p, ok := a.ByProject[name]
	if !ok {
		p = &ProjectAggregate{Name: name}
		a.ByProject[name] = p
	}
	p.Total++
	switch result.Status {
	case suite.StatusPassed:
		p.Passed++
	case suite.StatusSkipped:
	default:
		p.Failed++
	}
	p.AvgDurationMs = (p.AvgDurationMs*float64(p.Total-1) + ms) / float64(p.Total)
}

// Finish stamps the run outcome and percentiles and returns the aggregate
func (c *Collector) Finish(runID string, result *suite.FullResult) *Aggregate {
	a := c.aggregate
	a.RunID = runID
	a.Status = string(result.Status)
	a.Duration = result.Duration
	if a.Total > 0 {
		a.P50DurationMs = float64(c.histogram.ValueAtQuantile(50))
		a.P95DurationMs = float64(c.histogram.ValueAtQuantile(95))
		a.P99DurationMs = float64(c.histogram.ValueAtQuantile(99))
	}
	return a
}

// sanitizeLabel makes a string safe for use as a Prometheus label value
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
