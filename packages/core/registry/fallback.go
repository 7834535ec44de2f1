package registry

import (
	"github.com/abdul-hamid-achik/hitreport/packages/output"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// ApplyStdioFallback makes sure something prints progress to the console.
// When no reporter prints to stdio a default one is inserted at the front:
// the listing reporter in list mode, dot on CI, line otherwise. Line is
// built with omitFailures since the configured reporters already keep them.
// An empty list stays empty.
func ApplyStdioFallback(reporters []reporter.Reporter, opts Options) []reporter.Reporter {
	if len(reporters) == 0 {
		return reporters
	}
	for _, r := range reporters {
		if reporter.PrintsToStdio(r) {
			return reporters
		}
	}

	var fallback reporter.Reporter
	switch {
	case opts.ListMode:
		fallback = output.NewListingReporter(opts.Env)
	case opts.CI:
		fallback = output.NewDotReporter(opts.Env)
	default:
		fallback = output.NewLineReporter(opts.Env, output.LineOptions{OmitFailures: true})
	}

	result := make([]reporter.Reporter, 0, len(reporters)+1)
	result = append(result, fallback)
	return append(result, reporters...)
}
