package suite

import (
	"strings"
	"time"
)

// Status is the outcome of a test or of the whole run
type Status string

const (
	StatusPassed      Status = "passed"
	StatusFailed      Status = "failed"
	StatusTimedOut    Status = "timedOut"
	StatusSkipped     Status = "skipped"
	StatusInterrupted Status = "interrupted"
)

// OK reports whether the status counts as a success
func (s Status) OK() bool {
	return s == StatusPassed || s == StatusSkipped
}

// ParseStatus converts a manifest status string, defaulting to passed
func ParseStatus(s string) Status {
	switch Status(strings.TrimSpace(s)) {
	case StatusFailed:
		return StatusFailed
	case StatusTimedOut:
		return StatusTimedOut
	case StatusSkipped:
		return StatusSkipped
	case StatusInterrupted:
		return StatusInterrupted
	default:
		return StatusPassed
	}
}

// TestError describes a failure reported by the runner
type TestError struct {
	Message  string    `json:"message"`
	Stack    string    `json:"stack,omitempty"`
	Location *Location `json:"location,omitempty"`
}

func (e *TestError) Error() string {
	return e.Message
}

// TestResult is the outcome of one test attempt
type TestResult struct {
	Status   Status
	Duration time.Duration
	Retry    int
	Errors   []*TestError
	Stdout   []string
	Stderr   []string
}

// FullResult is the outcome of the whole run
type FullResult struct {
	Status    Status
	StartTime time.Time
	Duration  time.Duration
}

// Record pairs a test with its recorded result
type Record struct {
	Test   *Test
	Result *TestResult
}
