package metrics

import (
	"context"
	"fmt"
	"io"
)

// PrometheusExporter writes metrics in the Prometheus text format, suitable
// for the node_exporter textfile collector
type PrometheusExporter struct {
	writer io.Writer
	prefix string
}

// PrometheusOption is a functional option for PrometheusExporter
type PrometheusOption func(*PrometheusExporter)

// WithPrometheusPrefix sets the metric name prefix
func WithPrometheusPrefix(prefix string) PrometheusOption {
	return func(p *PrometheusExporter) {
		p.prefix = prefix
	}
}

// NewPrometheusExporter creates an exporter writing to w
func NewPrometheusExporter(w io.Writer, opts ...PrometheusOption) *PrometheusExporter {
	p := &PrometheusExporter{writer: w, prefix: "hitreport"}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the name of the exporter
func (p *PrometheusExporter) Name() string {
	return "prometheus"
}

// Export writes the aggregate
func (p *PrometheusExporter) Export(_ context.Context, a *Aggregate) error {
	w := &errWriter{w: p.writer}

	p.header(w, "tests_total", "counter", "Tests by outcome")
	for _, row := range []struct {
		status string
		count  int64
	}{
		{"passed", a.Passed},
		{"failed", a.Failed},
		{"flaky", a.Flaky},
		{"skipped", a.Skipped},
		{"timedout", a.TimedOut},
	} {
		w.printf("%s_tests_total{status=\"%s\"} %d\n", p.prefix, row.status, row.count)
	}
	w.printf("\n")

	p.header(w, "run_duration_seconds", "gauge", "Wall time of the run")
	w.printf("%s_run_duration_seconds %.3f\n\n", p.prefix, a.Duration.Seconds())

	p.header(w, "test_duration_ms", "gauge", "Test duration in milliseconds")
	w.printf("%s_test_duration_ms{quantile=\"min\"} %.2f\n", p.prefix, a.MinDurationMs)
	w.printf("%s_test_duration_ms{quantile=\"max\"} %.2f\n", p.prefix, a.MaxDurationMs)
	w.printf("%s_test_duration_ms{quantile=\"avg\"} %.2f\n", p.prefix, a.AvgDurationMs)
	if a.Total > 0 {
		w.printf("%s_test_duration_ms{quantile=\"0.50\"} %.2f\n", p.prefix, a.P50DurationMs)
		w.printf("%s_test_duration_ms{quantile=\"0.95\"} %.2f\n", p.prefix, a.P95DurationMs)
		w.printf("%s_test_duration_ms{quantile=\"0.99\"} %.2f\n", p.prefix, a.P99DurationMs)
	}

	if projects := a.Projects(); len(projects) > 0 {
		w.printf("\n")
		p.header(w, "project_tests_total", "counter", "Tests per project")
		for _, pa := range projects {
			w.printf("%s_project_tests_total{project=\"%s\"} %d\n", p.prefix, sanitizeLabel(pa.Name), pa.Total)
		}
		w.printf("\n")
		p.header(w, "project_failed_total", "counter", "Failed tests per project")
		for _, pa := range projects {
			w.printf("%s_project_failed_total{project=\"%s\"} %d\n", p.prefix, sanitizeLabel(pa.Name), pa.Failed)
		}
	}
	return w.err
}

func (p *PrometheusExporter) header(w *errWriter, name, kind, help string) {
	w.printf("# HELP %s_%s %s\n", p.prefix, name, help)
	w.printf("# TYPE %s_%s %s\n", p.prefix, name, kind)
}

// errWriter remembers the first write error
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
