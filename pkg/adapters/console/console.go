package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

const (
	errorColor  = "#f87171"
	resultColor = "#818cf8"
)

// Stream implements ports.Console over two writers: one for errors and one
// for logs. Writes are serialised so multi-line reports never interleave.
type Stream struct {
	errW    io.Writer
	logW    io.Writer
	profile termenv.Profile
	mu      sync.Mutex
}

// Option defines configuration for Stream.
type Option func(*Stream)

// WithProfile enables header styling for the given colour profile.
// termenv.Ascii (the default) writes plain text.
func WithProfile(p termenv.Profile) Option {
	return func(s *Stream) {
		s.profile = p
	}
}

// New creates a console writing errors to errW and logs to logW.
// Nil writers default to Stderr and Stdout.
func New(errW, logW io.Writer, opts ...Option) *Stream {
	if errW == nil {
		errW = os.Stderr
	}
	if logW == nil {
		logW = os.Stdout
	}
	s := &Stream{
		errW:    errW,
		logW:    logW,
		profile: termenv.Ascii,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Default returns a plain console on Stderr and Stdout.
func Default() *Stream {
	return New(nil, nil)
}

// Error writes line to the error writer.
func (s *Stream) Error(line string) {
	s.write(s.errW, s.style(line, errorColor))
}

// Log writes line to the log writer.
func (s *Stream) Log(line string) {
	s.write(s.logW, s.style(line, resultColor))
}

func (s *Stream) write(w io.Writer, line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(w, line)
}

// style colours the ">>command" header of a fallback line. Other lines, and
// everything under the Ascii profile, pass through untouched.
func (s *Stream) style(line, color string) string {
	if s.profile == termenv.Ascii || !strings.HasPrefix(line, ">>") {
		return line
	}

	header, body, hasBody := strings.Cut(line, "\n")
	styled := s.profile.String(header).Foreground(s.profile.Color(color)).Bold().String()
	if !hasBody {
		return styled
	}
	return styled + "\n" + body
}
