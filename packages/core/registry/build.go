package registry

import (
	"context"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"go.uber.org/zap"
)

// Build resolves descriptors, applies the stdio fallback and returns the
// dispatcher the runner talks to
func Build(ctx context.Context, descriptors []config.ReporterDescriptor, opts Options) (*reporter.Multiplexer, error) {
	reporters, err := Resolve(ctx, descriptors, opts)
	if err != nil {
		return nil, err
	}
	reporters = ApplyStdioFallback(reporters, opts)

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("reporters resolved",
		zap.Int("count", len(reporters)),
		zap.Strings("names", names(reporters)),
	)
	return reporter.NewMultiplexer(reporters, reporter.WithLogger(logger)), nil
}

func names(reporters []reporter.Reporter) []string {
	out := make([]string, len(reporters))
	for i, r := range reporters {
		out[i] = reporter.NameOf(r)
	}
	return out
}
