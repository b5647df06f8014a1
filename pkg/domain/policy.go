package domain

import (
	"fmt"
	"strings"
)

// ErrorPolicy selects how an error report is handled when a sink is present.
// Without a sink both policies write the formatted line to the error stream.
type ErrorPolicy string

const (
	// PolicyForward writes the raw message to the error stream and then
	// hands (command, message) to the sink's error method.
	PolicyForward ErrorPolicy = "forward"

	// PolicyConsole writes the formatted line to the error stream and never
	// calls the sink on the error path.
	PolicyConsole ErrorPolicy = "console"
)

// DefaultErrorPolicy is used when no policy is configured.
const DefaultErrorPolicy = PolicyForward

// ParseErrorPolicy converts a policy name. The empty string yields the default.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch ErrorPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultErrorPolicy, nil
	case PolicyForward:
		return PolicyForward, nil
	case PolicyConsole:
		return PolicyConsole, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
