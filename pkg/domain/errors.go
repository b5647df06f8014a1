package domain

import "errors"

// ErrSinkNotFound is returned when the named sink object does not exist in the host.
var ErrSinkNotFound = errors.New("sink not found")

// ErrSinkInvalid is returned when the sink object lacks printError or printResult.
var ErrSinkInvalid = errors.New("sink does not expose printError and printResult")

// ErrUnknownKind is returned when a report kind is neither "error" nor "result".
var ErrUnknownKind = errors.New("unknown report kind")

// ErrUnknownPolicy is returned when an error policy name cannot be parsed.
var ErrUnknownPolicy = errors.New("unknown error policy")

// ErrUnknownSink is returned when a configured sink type is not supported.
var ErrUnknownSink = errors.New("unknown sink type")

// ErrNoSubscribers is returned by broadcasting sinks when nobody is listening.
var ErrNoSubscribers = errors.New("no subscribers")
