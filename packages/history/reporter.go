package history

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	// Name is the locator the reporter is registered under
	Name = "history"
	// DefaultDatabase is the file name used when no database is configured
	DefaultDatabase = "hitreport-history.db"
)

// Reporter writes each run and its test results to a Store
type Reporter struct {
	reporter.Base
	env      reporter.Env
	database string
	store    *Store
	runID    string
	rootDir  string
	start    time.Time
}

// New creates a history reporter writing to database. An empty database
// means DefaultDatabase inside the output directory.
func New(env reporter.Env, database string) *Reporter {
	return &Reporter{env: env, database: database}
}

// FromArg builds a history reporter from {"database": string}
func FromArg(arg any, env reporter.Env) (reporter.Reporter, error) {
	var database string
	if arg != nil {
		data, err := json.Marshal(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid history argument: %w", err)
		}
		database = gjson.GetBytes(data, "database").String()
	}
	return New(env, database), nil
}

func (r *Reporter) Name() string {
	return Name
}

// PrintsToStdio is always false, results only go to the database
func (r *Reporter) PrintsToStdio() bool {
	return false
}

// DatabasePath returns where the database lives for a run rooted at rootDir
func (r *Reporter) DatabasePath(rootDir string) string {
	path := r.database
	if path == "" {
		base := r.env.OutputDir
		if base == "" {
			base = rootDir
		}
		return filepath.Join(base, DefaultDatabase)
	}
	if strings.HasPrefix(path, "sqlite:") || filepath.IsAbs(path) || rootDir == "" {
		return path
	}
	return filepath.Join(rootDir, path)
}

func (r *Reporter) OnBegin(cfg *config.FullConfig, _ *suite.Suite) error {
	if cfg != nil {
		r.runID = cfg.RunID
		r.rootDir = cfg.RootDir
	}
	if r.runID == "" {
		r.runID = uuid.New().String()
	}
	r.start = time.Now()

	store, err := Open(r.DatabasePath(r.rootDir))
	if err != nil {
		return err
	}
	r.store = store

	run := Run{ID: r.runID, RootDir: r.rootDir, StartedAt: r.start}
	if cfg != nil {
		run.Version = cfg.Version
	}
	return r.store.BeginRun(run)
}

func (r *Reporter) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	if r.store == nil {
		return nil
	}

	file := t.Location.File
	if rel, err := filepath.Rel(r.rootDir, file); err == nil && r.rootDir != "" && filepath.IsAbs(file) {
		file = filepath.ToSlash(rel)
	}

	var message string
	if len(result.Errors) > 0 {
		message = result.Errors[0].Message
	}

	return r.store.AddResult(r.runID, Result{
		TestID:   t.ID,
		Project:  t.ProjectName(),
		File:     file,
		Title:    strings.Join(t.Titles(), " › "),
		Status:   string(result.Status),
		Retry:    result.Retry,
		Duration: result.Duration,
		Error:    message,
	})
}

func (r *Reporter) OnEnd(result *suite.FullResult) error {
	if r.store == nil {
		return nil
	}
	defer func() {
		r.store.Close()
		r.store = nil
	}()

	duration := result.Duration
	if duration == 0 {
		duration = time.Since(r.start)
	}
	return r.store.FinishRun(r.runID, string(result.Status), duration)
}
