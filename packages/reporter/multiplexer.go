package reporter

import (
	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Multiplexer forwards every hook to its reporters in order. A failing or
// panicking reporter does not stop delivery to the ones after it; failures are
// logged and returned together as *HookError values.
type Multiplexer struct {
	reporters []Reporter
	logger    *zap.Logger
}

// MultiplexerOption configures a Multiplexer
type MultiplexerOption func(*Multiplexer)

// WithLogger sets the logger used to report hook failures
func WithLogger(l *zap.Logger) MultiplexerOption {
	return func(m *Multiplexer) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMultiplexer wraps reporters. The slice is copied.
func NewMultiplexer(reporters []Reporter, opts ...MultiplexerOption) *Multiplexer {
	m := &Multiplexer{
		reporters: append([]Reporter(nil), reporters...),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Reporters returns a copy of the wrapped reporters
func (m *Multiplexer) Reporters() []Reporter {
	return append([]Reporter(nil), m.reporters...)
}

func (m *Multiplexer) Name() string {
	return "multiplexer"
}

func (m *Multiplexer) OnBegin(cfg *config.FullConfig, s *suite.Suite) error {
	return m.each("OnBegin", func(r Reporter) error {
		return r.OnBegin(cfg, s)
	})
}

func (m *Multiplexer) OnTestBegin(t *suite.Test) error {
	return m.each("OnTestBegin", func(r Reporter) error {
		return r.OnTestBegin(t)
	})
}

func (m *Multiplexer) OnTestEnd(t *suite.Test, result *suite.TestResult) error {
	return m.each("OnTestEnd", func(r Reporter) error {
		return r.OnTestEnd(t, result)
	})
}

func (m *Multiplexer) OnEnd(result *suite.FullResult) error {
	return m.each("OnEnd", func(r Reporter) error {
		return r.OnEnd(result)
	})
}

func (m *Multiplexer) OnError(err *suite.TestError) error {
	return m.each("OnError", func(r Reporter) error {
		return r.OnError(err)
	})
}

func (m *Multiplexer) OnStdOut(chunk string, t *suite.Test) error {
	return m.each("OnStdOut", func(r Reporter) error {
		if o, ok := r.(OutputReporter); ok {
			return o.OnStdOut(chunk, t)
		}
		return nil
	})
}

func (m *Multiplexer) OnStdErr(chunk string, t *suite.Test) error {
	return m.each("OnStdErr", func(r Reporter) error {
		if o, ok := r.(OutputReporter); ok {
			return o.OnStdErr(chunk, t)
		}
		return nil
	})
}

// PrintsToStdio is true when any wrapped reporter prints
func (m *Multiplexer) PrintsToStdio() bool {
	for _, r := range m.reporters {
		if PrintsToStdio(r) {
			return true
		}
	}
	return false
}

func (m *Multiplexer) each(hook string, fn func(Reporter) error) error {
	var errs error
	for i, r := range m.reporters {
		if err := call(fn, r); err != nil {
			hookErr := &HookError{Hook: hook, Reporter: NameOf(r), Index: i, Err: err}
			m.logger.Warn("reporter hook failed",
				zap.String("hook", hook),
				zap.String("reporter", hookErr.Reporter),
				zap.Int("index", i),
				zap.Error(err),
			)
			errs = multierr.Append(errs, hookErr)
		}
	}
	return errs
}

func call(fn func(Reporter) error, r Reporter) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v}
		}
	}()
	return fn(r)
}
