package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DataDogExporter posts metrics to the Datadog series API
type DataDogExporter struct {
	apiKey  string
	site    string
	baseURL string
	tags    []string
	prefix  string
	client  *http.Client
	now     func() time.Time
}

// DataDogOption is a functional option for DataDogExporter
type DataDogOption func(*DataDogExporter)

// WithDataDogSite sets the Datadog site (e.g., "datadoghq.com", "datadoghq.eu")
func WithDataDogSite(site string) DataDogOption {
	return func(d *DataDogExporter) {
		d.site = site
	}
}

// WithDataDogURL overrides the API base URL
func WithDataDogURL(url string) DataDogOption {
	return func(d *DataDogExporter) {
		d.baseURL = url
	}
}

// WithDataDogTags sets additional tags for all metrics
func WithDataDogTags(tags []string) DataDogOption {
	return func(d *DataDogExporter) {
		d.tags = tags
	}
}

// WithDataDogPrefix sets a prefix for metric names
func WithDataDogPrefix(prefix string) DataDogOption {
	return func(d *DataDogExporter) {
		d.prefix = prefix
	}
}

// WithDataDogClock sets the clock used for data point timestamps
func WithDataDogClock(now func() time.Time) DataDogOption {
	return func(d *DataDogExporter) {
		d.now = now
	}
}

// NewDataDogExporter creates a new Datadog metrics exporter
func NewDataDogExporter(apiKey string, opts ...DataDogOption) *DataDogExporter {
	d := &DataDogExporter{
		apiKey: apiKey,
		site:   "datadoghq.com",
		prefix: "hitreport",
		client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Name returns the name of the exporter
func (d *DataDogExporter) Name() string {
	return "datadog"
}

type datadogMetric struct {
	Metric string   `json:"metric"`
	Type   string   `json:"type"`
	Points [][]any  `json:"points"`
	Tags   []string `json:"tags,omitempty"`
}

type datadogPayload struct {
	Series []datadogMetric `json:"series"`
}

// series builds the payload series for an aggregate
func (d *DataDogExporter) series(a *Aggregate) []datadogMetric {
	now := float64(d.now().Unix())
	tags := append([]string{"status:" + a.Status}, d.tags...)

	point := func(name, kind string, value float64, tags []string) datadogMetric {
		return datadogMetric{
			Metric: d.prefix + "." + name,
			Type:   kind,
			Points: [][]any{{now, value}},
			Tags:   tags,
		}
	}

	series := []datadogMetric{
		point("tests.total", "count", float64(a.Total), tags),
		point("tests.passed", "count", float64(a.Passed), tags),
		point("tests.failed", "count", float64(a.Failed), tags),
		point("tests.flaky", "count", float64(a.Flaky), tags),
		point("tests.skipped", "count", float64(a.Skipped), tags),
		point("run.duration", "gauge", a.Duration.Seconds(), tags),
		point("duration.avg", "gauge", a.AvgDurationMs, tags),
		point("duration.max", "gauge", a.MaxDurationMs, tags),
	}
	if a.Total > 0 {
		series = append(series,
			point("duration.p50", "gauge", a.P50DurationMs, tags),
			point("duration.p95", "gauge", a.P95DurationMs, tags),
			point("duration.p99", "gauge", a.P99DurationMs, tags),
		)
	}

	for _, pa := range a.Projects() {
		if pa.Name == "" {
			continue
		}
		projectTags := append([]string{"project:" + pa.Name}, tags...)
		series = append(series,
			point("project.tests", "count", float64(pa.Total), projectTags),
			point("project.failed", "count", float64(pa.Failed), projectTags),
		)
	}
	return series
}

// Export posts the aggregate to Datadog
func (d *DataDogExporter) Export(ctx context.Context, a *Aggregate) error {
	if d.apiKey == "" {
		return fmt.Errorf("datadog API key not configured")
	}

	data, err := json.Marshal(datadogPayload{Series: d.series(a)})
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	url := d.baseURL
	if url == "" {
		url = fmt.Sprintf("https://api.%s", d.site)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/api/v1/series", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("DD-API-KEY", d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("datadog API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
