package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind distinguishes the two output channels of an evaluation host.
type Kind string

const (
	KindError  Kind = "error"
	KindResult Kind = "result"
)

// ParseKind converts a textual kind into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindError:
		return KindError, nil
	case KindResult:
		return KindResult, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Destination records where a routed report ended up.
type Destination string

const (
	DestinationSink    Destination = "sink"
	DestinationConsole Destination = "console"
)

// UnexpectedMessage replaces report bodies that are not valid UTF-8.
const UnexpectedMessage = "unexpected error"

// FormatFallback renders the line written to the diagnostic stream when no
// sink takes the report: ">>" + command + "\n" + message.
func FormatFallback(command, message string) string {
	return ">>" + command + "\n" + message
}

// MessageFromBytes decodes a report body produced by an evaluator.
// Invalid UTF-8 yields UnexpectedMessage.
func MessageFromBytes(b []byte) string {
	if !utf8.Valid(b) {
		return UnexpectedMessage
	}
	return string(b)
}

// Report is the serialisable envelope of a routed message.
// Sinks that persist or stream reports (Redis, SSE) use it; the router
// itself only deals in (command, message) pairs.
type Report struct {
	ID      string    `json:"id" mapstructure:"id"`
	Kind    Kind      `json:"kind" mapstructure:"kind"`
	Command string    `json:"command" mapstructure:"command"`
	Message string    `json:"message" mapstructure:"message"`
	Time    time.Time `json:"time" mapstructure:"time"`
}

// NewReport stamps a report with a fresh ID and the current time.
func NewReport(kind Kind, command, message string) Report {
	return Report{
		ID:      uuid.NewString(),
		Kind:    kind,
		Command: command,
		Message: message,
		Time:    time.Now().UTC(),
	}
}
