package cmd

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/abdul-hamid-achik/hitreport/packages/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show runs stored by the history reporter",
	Long: `Show the most recent runs stored by the history reporter.

Examples:
  hitreport history
  hitreport history --database reports/hitreport-history.db --limit 20
  hitreport history --run <run-id>`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

var (
	databaseFlag string
	limitFlag    int
	runFlag      string
)

func init() {
	historyCmd.Flags().StringVar(&databaseFlag, "database", "", "History database (default: <output-dir>/"+history.DefaultDatabase+")")
	historyCmd.Flags().IntVarP(&limitFlag, "limit", "n", 10, "Number of runs to show")
	historyCmd.Flags().StringVar(&runFlag, "run", "", "Show the results of one run")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	path := databaseFlag
	if path == "" {
		path = filepath.Join(outputDirFlag, history.DefaultDatabase)
	}

	store, err := history.Open(path)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	defer store.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	if runFlag != "" {
		results, err := store.Results(cmd.Context(), runFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "STATUS\tDURATION\tFILE\tTITLE")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Status, r.Duration, r.File, r.Title)
		}
		return w.Flush()
	}

	runs, err := store.Runs(cmd.Context(), limitFlag)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tTESTS\tFAILED\tDURATION")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Tests, r.Failed, r.Duration)
	}
	return w.Flush()
}
