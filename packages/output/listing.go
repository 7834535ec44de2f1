package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/abdul-hamid-achik/hitreport/packages/reporter"
)

// ListingReporter prints every test of the suite instead of progress. It is
// used when tests are only enumerated.
type ListingReporter struct {
	reporter.Base
	out    io.Writer
	errOut io.Writer
	config *config.FullConfig
}

// NewListingReporter creates a listing reporter writing to env's streams
func NewListingReporter(env reporter.Env) *ListingReporter {
	r := &ListingReporter{out: env.Stdout, errOut: env.Stderr}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.errOut == nil {
		r.errOut = os.Stderr
	}
	return r
}

// ListingFromArg builds a listing reporter; the argument is ignored
func ListingFromArg(_ any, env reporter.Env) (reporter.Reporter, error) {
	return NewListingReporter(env), nil
}

func (r *ListingReporter) Name() string {
	return "listing"
}

func (r *ListingReporter) OnBegin(cfg *config.FullConfig, s *suite.Suite) error {
	r.config = cfg

	fmt.Fprintln(r.out, "Listing tests:")
	tests := s.AllTests()
	files := make(map[string]struct{})
	for _, t := range tests {
		fmt.Fprintf(r.out, "  %s\n", testTitle(cfg, t, " "))
		files[t.Location.File] = struct{}{}
	}
	fmt.Fprintf(r.out, "Total: %s in %s\n", plural(len(tests), "test"), plural(len(files), "file"))
	return nil
}

func (r *ListingReporter) OnError(err *suite.TestError) error {
	_, werr := fmt.Fprintf(r.errOut, "\n%s\n", formatError(r.config, err, newPalette(true)))
	return werr
}
