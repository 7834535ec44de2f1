package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	reporterFlag  string
	configFlag    string
	noColorFlag   bool
	outputDirFlag string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "hitreport",
	Short: "Test reporters, wired from config.",
	Long: `hitreport turns a reporter configuration into live reporters and feeds
them the lifecycle of a test run recorded in a suite manifest.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	err := rootCmd.Execute()
	if err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	os.Exit(exitCode(err))
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&reporterFlag, "reporter", "r", "", "Comma-separated reporters, replaces the configured ones")
	flags.StringVar(&configFlag, "config", getEnvString(config.EnvConfig, ""), "Path to config file (env: HITREPORT_CONFIG)")
	flags.BoolVar(&noColorFlag, "no-color", getEnvBool(config.EnvNoColor, false), "Disable colored output (env: HITREPORT_NO_COLOR)")
	flags.StringVar(&outputDirFlag, "output-dir", getEnvString("HITREPORT_OUTPUT_DIR", ""), "Directory for file reporters (env: HITREPORT_OUTPUT_DIR)")
	flags.StringVar(&logLevelFlag, "log-level", getEnvString("HITREPORT_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error (env: HITREPORT_LOG_LEVEL)")
	flags.StringVar(&logFormatFlag, "log-format", getEnvString("HITREPORT_LOG_FORMAT", "console"), "Log format: console, json (env: HITREPORT_LOG_FORMAT)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(reportersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
