package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/registry"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/export/metrics"
	"github.com/abdul-hamid-achik/hitreport/packages/history"
	"github.com/abdul-hamid-achik/hitreport/packages/logging"
	"github.com/abdul-hamid-achik/hitreport/packages/notify"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

// session is everything a command needs to drive one run
type session struct {
	config   *config.Config
	full     *config.FullConfig
	env      config.Environment
	logger   *zap.Logger
	reporter *reporter.Multiplexer
	run      *suite.Run
}

// loadSettings reads the config file and applies CLI flags on top
func loadSettings(manifestPath string) (*config.Config, error) {
	var (
		fileConfig *config.Config
		err        error
	)
	if configFlag != "" {
		fileConfig, err = config.LoadConfig(configFlag)
	} else {
		fileConfig, err = config.FindAndLoadConfig(filepath.Dir(manifestPath))
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := &config.Config{OutputDir: outputDirFlag}
	if reporterFlag != "" {
		flags.Reporter = config.ParseReporterFlag(reporterFlag)
	}
	if noColorFlag {
		flags.NoColor = config.BoolPtr(true)
	}
	return fileConfig.Merge(flags), nil
}

// newLoader returns the loader for reporters that are not built in: the
// in-process registry first, then Go plugins relative to rootDir
func newLoader(rootDir string, getenv func(string) string) (registry.Loader, *registry.Registry, error) {
	reg := registry.NewRegistry()
	custom := map[string]reporter.Constructor{
		history.Name: history.FromArg,
		"prometheus": metrics.PrometheusFromArg,
		"datadog":    metrics.DataDogConstructor(getenv),
		"slack":      notify.SlackConstructor(getenv),
		"teams":      notify.TeamsConstructor(getenv),
	}
	for name, ctor := range custom {
		if err := reg.Register(name, ctor); err != nil {
			return nil, nil, err
		}
	}
	return registry.ChainLoader{reg, registry.PluginLoader{BaseDir: rootDir}}, reg, nil
}

// newSession loads the manifest, config and reporters. Errors carry the
// exit code they should produce.
func newSession(ctx context.Context, manifestPath string, listMode bool, stdout, stderr io.Writer) (*session, error) {
	manifest, err := suite.LoadManifest(manifestPath)
	if err != nil {
		return nil, withExitCode(ExitManifestError, err)
	}
	run, err := manifest.Build()
	if err != nil {
		return nil, withExitCode(ExitManifestError, fmt.Errorf("%s: %w", manifestPath, err))
	}

	cfg, err := loadSettings(manifestPath)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	if cfg.RootDir == "" {
		cfg.RootDir = run.RootDir
	}
	if cfg.RootDir == "" {
		if cfg.RootDir, err = os.Getwd(); err != nil {
			return nil, withExitCode(ExitConfigError, err)
		}
	}

	noColor := cfg.GetNoColor()
	if noColor {
		color.NoColor = true
	}

	logger, err := logging.New(logging.Config{Level: logLevelFlag, Format: logFormatFlag, NoColor: noColor}, stderr)
	if err != nil {
		return nil, withExitCode(ExitUsageError, err)
	}

	getenv, err := config.WithDotEnv(cfg.RootDir, os.Getenv)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	env := config.LoadEnvironment(getenv)
	loader, _, err := newLoader(cfg.RootDir, getenv)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	mux, err := registry.Build(ctx, cfg.Reporter, registry.Options{
		ListMode: listMode,
		CI:       env.CI,
		Override: env.ReporterOverride,
		Loader:   loader,
		Env: reporter.Env{
			Stdout:    stdout,
			Stderr:    stderr,
			NoColor:   noColor,
			OutputDir: cfg.OutputDir,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	logger.Debug("session ready",
		zap.String("manifest", manifestPath),
		zap.String("rootDir", cfg.RootDir),
		zap.String("platform", env.Platform),
		zap.Int("tests", len(run.Suite.AllTests())),
	)

	return &session{
		config:   cfg,
		full:     config.NewFullConfig(cfg, version),
		env:      env,
		logger:   logger,
		reporter: mux,
		run:      run,
	}, nil
}
