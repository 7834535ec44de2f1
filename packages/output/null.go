package output

import "github.com/abdul-hamid-achik/hitreport/packages/reporter"

// NullReporter discards every event
type NullReporter struct {
	reporter.Base
}

// NullFromArg builds a null reporter
func NullFromArg(_ any, _ reporter.Env) (reporter.Reporter, error) {
	return &NullReporter{}, nil
}

func (r *NullReporter) Name() string        { return "null" }
func (r *NullReporter) PrintsToStdio() bool { return false }
