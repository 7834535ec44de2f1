package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/abdul-hamid-achik/hitreport/packages/core/registry"
	"github.com/spf13/cobra"
)

var reportersCmd = &cobra.Command{
	Use:   "reporters",
	Short: "List available reporters",
	Long: `List the built-in reporters and the custom reporters registered with
this binary. Any other name in the reporter config is loaded as a Go plugin
(.so) relative to the config root.`,
	Args: cobra.NoArgs,
	RunE: reportersCommand,
}

var reporterDescriptions = map[registry.BuiltIn]string{
	registry.BuiltInList:   "one line per test with status and duration",
	registry.BuiltInLine:   "single progress line, failures as they happen",
	registry.BuiltInDot:    "one character per test",
	registry.BuiltInJSON:   "JSON report (outputFile)",
	registry.BuiltInJUnit:  "JUnit XML report (outputFile, suiteName)",
	registry.BuiltInNull:   "discards everything",
	registry.BuiltInGitHub: "GitHub Actions annotations",
	registry.BuiltInHTML:   "HTML report (outputFolder)",
}

var customDescriptions = map[string]string{
	"datadog":    "posts run metrics to the Datadog series API (apiKey, site, tags)",
	"history":    "stores runs and results in SQLite (database)",
	"prometheus": "writes run metrics as a Prometheus textfile (outputFile, prefix)",
	"slack":      "posts a run summary to a Slack webhook (webhook, channel, notifyOn)",
	"teams":      "posts a run summary to a Teams webhook (webhook, notifyOn)",
}

func reportersCommand(cmd *cobra.Command, args []string) error {
	_, reg, err := newLoader("", os.Getenv)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION")
	for _, b := range registry.BuiltIns() {
		fmt.Fprintf(w, "%s\tbuilt-in\t%s\n", b, reporterDescriptions[b])
	}
	for _, name := range reg.Names() {
		fmt.Fprintf(w, "%s\tcustom\t%s\n", name, customDescriptions[name])
	}
	return w.Flush()
}
