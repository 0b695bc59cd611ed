package tool

import (
	"fmt"
	"strings"
	"time"
)

// TimeoutError reports that an external invocation exceeded its deadline.
// Distinct from a non-zero exit.
type TimeoutError struct {
	Cmd     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: timed out after %s", e.Cmd, e.Timeout)
}

// InvocationError reports a non-zero exit from an external process. Stderr
// holds the tail of the process's error output for diagnosis.
type InvocationError struct {
	Cmd    string
	Err    error
	Stderr string
}

func (e *InvocationError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v\nstderr: %s", e.Cmd, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ParseError reports that a process succeeded but its output contained no
// well-formed JSON payload. Raw holds the output for diagnosis.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no JSON payload found in tool output (%d bytes)", len(e.Raw))
}

// tail returns the last n lines of s for compact error reporting.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
