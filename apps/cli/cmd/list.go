package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/runner"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var listCmd = &cobra.Command{
	Use:   "list <manifest>",
	Short: "List the tests in a suite manifest",
	Long: `List the tests in a suite manifest without running them. Progress
reporters (list, line, dot) print the listing; file reporters still run.

Examples:
  hitreport list results.yaml
  hitreport list results.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: listCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var watchFlag bool

func init() {
	listCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the manifest and list again when it changes")
}

func listCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manifest := args[0]
	if err := listOnce(ctx, cmd, manifest); err != nil {
		return err
	}
	if !watchFlag {
		return nil
	}
	return watchManifest(ctx, cmd, manifest)
}

func listOnce(ctx context.Context, cmd *cobra.Command, manifest string) error {
	s, err := newSession(ctx, manifest, true, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()

	result, err := runner.NewRunner(s.reporter, &runner.Config{Logger: s.logger}).List(ctx, s.full, s.run.Suite)
	if err != nil {
		return err
	}
	for _, e := range result.ReporterErrors {
		s.logger.Debug("reporter error", zap.Error(e))
	}
	return nil
}

// watchManifest lists again whenever the manifest is written, until ctx ends
func watchManifest(ctx context.Context, cmd *cobra.Command, manifest string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(manifest)
	if err != nil {
		return err
	}
	// Editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce = time.After(WatchDebounceDelay)
			}

		case <-debounce:
			debounce = nil
			fmt.Fprintf(cmd.ErrOrStderr(), "\nManifest changed: %s\n\n", manifest)
			if err := listOnce(ctx, cmd, manifest); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}
