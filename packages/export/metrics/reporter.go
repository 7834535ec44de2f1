package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"github.com/tidwall/gjson"
)

const (
	// DefaultPrometheusFile is the textfile written when no outputFile is set
	DefaultPrometheusFile = "hitreport.prom"
	// EnvDataDogAPIKey holds the API key when the reporter argument has none
	EnvDataDogAPIKey = "DD_API_KEY"
)

// exportFunc sends a finished aggregate for a run configured by cfg
type exportFunc func(ctx context.Context, cfg *config.FullConfig, a *Aggregate) error

// Reporter collects results during the run and exports them at OnEnd
type Reporter struct {
	reporter.Base
	name      string
	export    exportFunc
	config    *config.FullConfig
	collector *Collector
	aggregate *Aggregate
}

func newReporter(name string, export exportFunc) *Reporter {
	return &Reporter{name: name, export: export, collector: NewCollector()}
}

// NewReporter creates a reporter that hands the aggregate to exporter
func NewReporter(exporter Exporter) *Reporter {
	return newReporter(exporter.Name(), func(ctx context.Context, _ *config.FullConfig, a *Aggregate) error {
		return exporter.Export(ctx, a)
	})
}

func (r *Reporter) Name() string {
	return r.name
}

// PrintsToStdio is always false, metrics go to a file or an API
func (r *Reporter) PrintsToStdio() bool {
	return false
}

func (r *Reporter) OnBegin(cfg *config.FullConfig, _ *suite.Suite) error {
	r.config = cfg
	r.collector = NewCollector()
	return nil
}

func (r *Reporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	r.collector.Record(t, result)
	return nil
}

func (r *Reporter) OnEnd(result *suite.FullResult) error {
	var runID string
	if r.config != nil {
		runID = r.config.RunID
	}
	r.aggregate = r.collector.Finish(runID, result)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.export(ctx, r.config, r.aggregate); err != nil {
		return fmt.Errorf("%s export: %w", r.name, err)
	}
	return nil
}

// Aggregate returns the aggregate exported at OnEnd
func (r *Reporter) Aggregate() *Aggregate {
	return r.aggregate
}

func argJSON(arg any) (gjson.Result, error) {
	if arg == nil {
		return gjson.Result{}, nil
	}
	data, err := json.Marshal(arg)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("invalid metrics argument: %w", err)
	}
	return gjson.ParseBytes(data), nil
}

// PrometheusFromArg builds the "prometheus" reporter from
// {"outputFile": string, "prefix": string}
func PrometheusFromArg(arg any, env reporter.Env) (reporter.Reporter, error) {
	parsed, err := argJSON(arg)
	if err != nil {
		return nil, err
	}
	outputFile := parsed.Get("outputFile").String()
	var opts []PrometheusOption
	if prefix := parsed.Get("prefix").String(); prefix != "" {
		opts = append(opts, WithPrometheusPrefix(prefix))
	}

	return newReporter("prometheus", func(ctx context.Context, cfg *config.FullConfig, a *Aggregate) error {
		path := prometheusPath(env, cfg, outputFile)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create metrics file: %w", err)
		}
		if err := NewPrometheusExporter(f, opts...).Export(ctx, a); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}), nil
}

func prometheusPath(env reporter.Env, cfg *config.FullConfig, outputFile string) string {
	var root string
	if cfg != nil {
		root = cfg.RootDir
	}
	if outputFile == "" {
		base := env.OutputDir
		if base == "" {
			base = root
		}
		return filepath.Join(base, DefaultPrometheusFile)
	}
	if filepath.IsAbs(outputFile) || root == "" {
		return outputFile
	}
	return filepath.Join(root, outputFile)
}

// DataDogConstructor returns the constructor for the "datadog" reporter,
// reading {"apiKey", "site", "url", "prefix", "tags"}. getenv supplies the
// API key fallback.
func DataDogConstructor(getenv func(string) string) reporter.Constructor {
	return func(arg any, _ reporter.Env) (reporter.Reporter, error) {
		parsed, err := argJSON(arg)
		if err != nil {
			return nil, err
		}

		apiKey := parsed.Get("apiKey").String()
		if apiKey == "" {
			apiKey = getenv(EnvDataDogAPIKey)
		}
		if apiKey == "" {
			return nil, fmt.Errorf("datadog API key is required (set apiKey or %s)", EnvDataDogAPIKey)
		}

		var opts []DataDogOption
		if site := parsed.Get("site").String(); site != "" {
			opts = append(opts, WithDataDogSite(site))
		}
		if url := parsed.Get("url").String(); url != "" {
			opts = append(opts, WithDataDogURL(url))
		}
		if prefix := parsed.Get("prefix").String(); prefix != "" {
			opts = append(opts, WithDataDogPrefix(prefix))
		}
		if tags := parsed.Get("tags").Array(); len(tags) > 0 {
			list := make([]string, 0, len(tags))
			for _, t := range tags {
				list = append(list, t.String())
			}
			opts = append(opts, WithDataDogTags(list))
		}
		return NewReporter(NewDataDogExporter(apiKey, opts...)), nil
	}
}
