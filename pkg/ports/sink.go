package ports

import "github.com/aretw0/damascout/pkg/domain"

// Sink receives reports for display outside the diagnostic stream.
// It mirrors the page-level output object of a browser host.
type Sink interface {
	// PrintError receives an error report.
	PrintError(command, message string) error

	// PrintResult receives a result report.
	PrintResult(command, message string) error
}

// Presence is implemented by sinks whose receiver comes and goes at runtime,
// such as an event stream with no subscribers. A sink that is not present is
// treated as absent for that report.
type Presence interface {
	Present() bool
}

// Console is the always-available diagnostic stream.
type Console interface {
	// Error writes a line to the error stream.
	Error(line string)

	// Log writes a line to the standard log stream.
	Log(line string)
}

// Observer is notified after every routed report.
type Observer interface {
	Observe(kind domain.Kind, dest domain.Destination)

	// SinkFailed is called when a sink returned an error for a report.
	SinkFailed(kind domain.Kind)
}
