package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdul-hamid-achik/hitreport/packages/core/runner"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var replayCmd = &cobra.Command{
	Use:   "replay <manifest>",
	Short: "Replay recorded results through the configured reporters",
	Long: `Replay the results recorded in a suite manifest through the configured
reporters, exactly as a live run would deliver them.

Examples:
  hitreport replay results.yaml
  hitreport replay results.yaml --reporter dot,json
  HITREPORT_REPORTER=github hitreport replay results.json`,
	Args: cobra.ExactArgs(1),
	RunE: replayCommand,
}

var bailFlag bool

func init() {
	replayCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("HITREPORT_BAIL", false), "Stop after the first failed test (env: HITREPORT_BAIL)")
}

func replayCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(ctx, args[0], false, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	r := runner.NewRunner(s.reporter, &runner.Config{Bail: bailFlag, Logger: s.logger})
	result, err := r.Replay(ctx, s.full, s.run)
	if err != nil && ctx.Err() == nil {
		return err
	}

	for _, e := range result.ReporterErrors {
		s.logger.Debug("reporter error", zap.Error(e))
	}

	switch result.Status {
	case suite.StatusPassed:
		return nil
	case suite.StatusInterrupted:
		return withExitCode(ExitTestFailure, fmt.Errorf("run interrupted: %w", context.Canceled))
	default:
		return &ExitError{Code: ExitTestFailure}
	}
}
