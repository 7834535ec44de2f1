package registry

import (
	"context"
	"fmt"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
	"go.uber.org/zap"
)

// Options controls resolution and the stdio fallback
type Options struct {
	// ListMode means tests are only listed, not run
	ListMode bool
	// CI selects the dot reporter as the stdio fallback
	CI bool
	// Override names one extra reporter appended after the configured ones
	Override string
	// Loader resolves names that are not built in; nil means none are known
	Loader Loader
	// Env is handed to every constructor
	Env reporter.Env
	// Logger is used by the dispatcher; defaults to a no-op logger
	Logger *zap.Logger
}

// Resolve constructs one reporter per descriptor, in order, followed by the
// override reporter if one is set. The first failure aborts resolution and
// no reporters are returned.
func Resolve(ctx context.Context, descriptors []config.ReporterDescriptor, opts Options) ([]reporter.Reporter, error) {
	reporters := make([]reporter.Reporter, 0, len(descriptors)+1)

	for _, d := range descriptors {
		r, err := construct(ctx, d.Name, d.Arg, opts)
		if err != nil {
			return nil, err
		}
		reporters = append(reporters, r)
	}

	if opts.Override != "" {
		r, err := construct(ctx, opts.Override, nil, opts)
		if err != nil {
			return nil, err
		}
		reporters = append(reporters, r)
	}

	return reporters, nil
}

func construct(ctx context.Context, name string, arg any, opts Options) (reporter.Reporter, error) {
	if err := ctx.Err(); err != nil {
		return nil, &reporter.LoadError{Name: name, Err: err}
	}

	ctor, ok := Lookup(name, opts.ListMode)
	if !ok {
		if opts.Loader == nil {
			return nil, &reporter.LoadError{Name: name, Err: reporter.ErrReporterNotFound}
		}
		var err error
		ctor, err = opts.Loader.Load(ctx, name)
		if err != nil {
			return nil, &reporter.LoadError{Name: name, Err: err}
		}
	}

	r, err := ctor(arg, opts.Env)
	if err != nil {
		return nil, &reporter.LoadError{Name: name, Err: err}
	}
	if r == nil {
		return nil, &reporter.LoadError{Name: name, Err: fmt.Errorf("constructor returned no reporter")}
	}
	return r, nil
}
