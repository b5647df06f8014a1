package damascout

import (
	"log/slog"
	"reflect"

	"github.com/aretw0/damascout/internal/logging"
	"github.com/aretw0/damascout/pkg/adapters/console"
	"github.com/aretw0/damascout/pkg/domain"
	"github.com/aretw0/damascout/pkg/ports"
)

// Router forwards error and result reports to an injected sink, or to the
// diagnostic console when no sink is present.
//
// A Router holds no mutable state and is safe for concurrent use as long as
// its Console and Sink are.
type Router struct {
	console  ports.Console
	sink     ports.Sink
	policy   domain.ErrorPolicy
	logger   *slog.Logger
	observer ports.Observer
}

// Option defines a functional option for configuring the Router.
type Option func(*Router)

// WithSink injects the external output sink. A nil sink leaves the router
// writing to the console only.
func WithSink(sink ports.Sink) Option {
	return func(r *Router) {
		r.sink = sink
	}
}

// WithErrorPolicy selects how error reports are handled when a sink is present.
func WithErrorPolicy(policy domain.ErrorPolicy) Option {
	return func(r *Router) {
		r.policy = policy
	}
}

// WithLogger sets a structured logger for sink failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithObserver registers an observer notified of every routing decision.
func WithObserver(o ports.Observer) Option {
	return func(r *Router) {
		r.observer = o
	}
}

// New creates a Router writing to console. A nil console falls back to
// stderr for errors and stdout for logs.
func New(c ports.Console, opts ...Option) *Router {
	r := &Router{
		console: c,
		policy:  domain.DefaultErrorPolicy,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.console == nil {
		r.console = console.Default()
	}
	if isNil(r.sink) {
		r.sink = nil
	}
	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.policy == "" {
		r.policy = domain.DefaultErrorPolicy
	}

	return r
}

// HasSink reports whether an external sink was injected. It does not consult
// ports.Presence.
func (r *Router) HasSink() bool {
	return r.sink != nil
}

// Policy returns the error policy in effect.
func (r *Router) Policy() domain.ErrorPolicy {
	return r.policy
}

// ReportError routes an error report.
//
// Without a sink the formatted line goes to the error stream. With a sink,
// PolicyForward writes the raw message to the error stream and then calls
// the sink; PolicyConsole writes the formatted line and leaves the sink alone.
func (r *Router) ReportError(command, message string) {
	sink := r.activeSink()
	if sink == nil || r.policy == domain.PolicyConsole {
		r.console.Error(domain.FormatFallback(command, message))
		r.observe(domain.KindError, domain.DestinationConsole)
		return
	}

	r.console.Error(message)
	if err := sink.PrintError(command, message); err != nil {
		r.logger.Warn("sink rejected error report", "command", command, "error", err)
		r.failed(domain.KindError)
		r.observe(domain.KindError, domain.DestinationConsole)
		return
	}
	r.observe(domain.KindError, domain.DestinationSink)
}

// ReportResult routes a result report.
//
// With a sink the pair is handed to the sink and nothing is logged. Without
// one, or if the sink fails, the formatted line goes to the log stream.
func (r *Router) ReportResult(command, message string) {
	if sink := r.activeSink(); sink != nil {
		err := sink.PrintResult(command, message)
		if err == nil {
			r.observe(domain.KindResult, domain.DestinationSink)
			return
		}
		r.logger.Warn("sink rejected result report, falling back to console", "command", command, "error", err)
		r.failed(domain.KindResult)
	}

	r.console.Log(domain.FormatFallback(command, message))
	r.observe(domain.KindResult, domain.DestinationConsole)
}

// Report routes a report by kind. Unknown kinds are treated as errors.
func (r *Router) Report(kind domain.Kind, command, message string) {
	if kind == domain.KindResult {
		r.ReportResult(command, message)
		return
	}
	r.ReportError(command, message)
}

// activeSink returns the sink, or nil when there is none or it reports
// itself absent through ports.Presence.
func (r *Router) activeSink() ports.Sink {
	if r.sink == nil {
		return nil
	}
	if p, ok := r.sink.(ports.Presence); ok && !p.Present() {
		return nil
	}
	return r.sink
}

func (r *Router) observe(kind domain.Kind, dest domain.Destination) {
	if r.observer != nil {
		r.observer.Observe(kind, dest)
	}
}

func (r *Router) failed(kind domain.Kind) {
	if r.observer != nil {
		r.observer.SinkFailed(kind)
	}
}

// isNil catches typed-nil sinks such as (*js.Sink)(nil) returned by a failed lookup.
func isNil(s ports.Sink) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}
