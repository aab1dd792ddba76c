package entities

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeoutExitCode is rendered in place of an exit code when the process was killed
// by the deadline.
const TimeoutExitCode = -1

// Report section banners.
const (
	timedOutBanner = "=== Execution Timed Out ==="
	outputBanner   = "=== Output ==="
	errorsBanner   = "=== Errors/Warnings ==="
)

// ExecutionOutcome is the normalized result of one subprocess run.
// It is created once per execution and never mutated after it is returned.
type ExecutionOutcome struct {
	// ExitCode is nil when the process timed out or never exited normally.
	ExitCode *int

	// Stdout holds captured standard output, one line per newline.
	Stdout string

	// Stderr holds captured standard error, one line per newline.
	Stderr string

	// FatalError signals the process never produced a normal exit.
	// When set, ExitCode, Stdout and Stderr carry no success meaning.
	FatalError string

	// ErrorKind is the error category of FatalError ("config", "validation", "exec", "internal").
	ErrorKind string

	// ExecutionID correlates log lines and metrics of one call.
	ExecutionID string

	// Timeout is the deadline that fired when TimedOut is set.
	Timeout time.Duration

	// Duration is the wall time of the call.
	Duration time.Duration

	// TimedOut indicates the process was killed by the deadline.
	TimedOut bool
}

// NewExitedOutcome creates an outcome for a process that terminated on its own.
func NewExitedOutcome(exitCode int, stdout, stderr string) *ExecutionOutcome {
	return &ExecutionOutcome{
		ExitCode: &exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
	}
}

// NewTimedOutOutcome creates an outcome for a process killed by the deadline.
// Whatever was captured before termination is preserved.
func NewTimedOutOutcome(timeout time.Duration, stdout, stderr string) *ExecutionOutcome {
	return &ExecutionOutcome{
		Stdout:   stdout,
		Stderr:   stderr,
		TimedOut: true,
		Timeout:  timeout,
	}
}

// NewFatalOutcome creates an outcome for a call that could not run or finish a process.
func NewFatalOutcome(kind, message string) *ExecutionOutcome {
	if strings.TrimSpace(message) == "" {
		message = "unknown error"
	}
	return &ExecutionOutcome{
		FatalError: message,
		ErrorKind:  kind,
	}
}

// HasFatalError reports whether a fatal error message is present.
func (o *ExecutionOutcome) HasFatalError() bool {
	return strings.TrimSpace(o.FatalError) != ""
}

// Code returns the exit code and whether one is available.
func (o *ExecutionOutcome) Code() (int, bool) {
	if o.ExitCode == nil {
		return 0, false
	}
	return *o.ExitCode, true
}

// Success is true iff there is no fatal error, no timeout and the exit code is zero.
func (o *ExecutionOutcome) Success() bool {
	if o.HasFatalError() || o.TimedOut {
		return false
	}
	code, ok := o.Code()
	return ok && code == 0
}

// String renders the human-readable report returned to callers.
func (o *ExecutionOutcome) String() string {
	var b strings.Builder

	if o.HasFatalError() {
		fmt.Fprintf(&b, "Error: %s\n", o.FatalError)
		return b.String()
	}

	code, ok := o.Code()
	if !ok {
		code = TimeoutExitCode
	}
	fmt.Fprintf(&b, "Exit Code: %d\n", code)

	if o.TimedOut {
		b.WriteString("\n" + timedOutBanner + "\n")
		if o.Timeout > 0 {
			secs := strconv.FormatFloat(o.Timeout.Seconds(), 'f', -1, 64)
			fmt.Fprintf(&b, "Command execution timed out after %s seconds.\n", secs)
		}
	}

	writeSection(&b, outputBanner, o.Stdout)
	writeSection(&b, errorsBanner, o.Stderr)

	return b.String()
}

func writeSection(b *strings.Builder, banner, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b.WriteString("\n" + banner + "\n")
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
}

// outcomeWire is the JSON form of an outcome. Report and Success are derived on
// marshal and ignored on unmarshal.
type outcomeWire struct {
	ExitCode    *int   `json:"exit_code,omitempty"`
	Stdout      string `json:"stdout"`
	Stderr      string `json:"stderr"`
	FatalError  string `json:"fatal_error,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	ExecutionID string `json:"execution_id,omitempty"`
	Report      string `json:"report"`
	TimeoutMs   int64  `json:"timeout_ms,omitempty"`
	DurationMs  int64  `json:"duration_ms"`
	TimedOut    bool   `json:"timed_out,omitempty"`
	Success     bool   `json:"success"`
}

// MarshalJSON implements json.Marshaler, including the rendered report.
func (o *ExecutionOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeWire{
		ExitCode:    o.ExitCode,
		Stdout:      o.Stdout,
		Stderr:      o.Stderr,
		FatalError:  o.FatalError,
		ErrorKind:   o.ErrorKind,
		ExecutionID: o.ExecutionID,
		Report:      o.String(),
		TimeoutMs:   o.Timeout.Milliseconds(),
		DurationMs:  o.Duration.Milliseconds(),
		TimedOut:    o.TimedOut,
		Success:     o.Success(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *ExecutionOutcome) UnmarshalJSON(data []byte) error {
	var w outcomeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*o = ExecutionOutcome{
		ExitCode:    w.ExitCode,
		Stdout:      w.Stdout,
		Stderr:      w.Stderr,
		FatalError:  w.FatalError,
		ErrorKind:   w.ErrorKind,
		ExecutionID: w.ExecutionID,
		Timeout:     time.Duration(w.TimeoutMs) * time.Millisecond,
		Duration:    time.Duration(w.DurationMs) * time.Millisecond,
		TimedOut:    w.TimedOut,
	}
	return nil
}
