package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/oliverbestmann/semlog"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Engine failure
	ExitCommandError = 2 // Command error (invalid paths, invalid config, etc.)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// EventPrinter writes events as text lines or as one JSON document per line.
type EventPrinter struct {
	format string
	writer io.Writer
	enc    *json.Encoder
	err    error
}

func NewEventPrinter(w io.Writer, format string) *EventPrinter {
	return &EventPrinter{
		format: format,
		writer: w,
		enc:    json.NewEncoder(w),
	}
}

// Print writes a single event. After the first write error, all further events are dropped.
func (p *EventPrinter) Print(ev semlog.Event) {
	if p.err != nil {
		return
	}

	if p.format == "json" {
		p.err = p.enc.Encode(ev)
		return
	}

	_, p.err = fmt.Fprintln(p.writer, ev)
}

// Err returns the first write error.
func (p *EventPrinter) Err() error {
	return p.err
}

// Observer returns an observer printing all events.
func (p *EventPrinter) Observer() semlog.Observer {
	return semlog.NewObserver(p.Print)
}
