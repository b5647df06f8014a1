package memory

import (
	"sync"

	"github.com/aretw0/damascout/pkg/domain"
)

// Sink implements ports.Sink in memory.
// Safe for concurrent use.
type Sink struct {
	reports []domain.Report
	failErr error
	mu      sync.RWMutex
}

// NewSink creates a new in-memory sink.
func NewSink() *Sink {
	return &Sink{}
}

// PrintError records an error report.
func (s *Sink) PrintError(command, message string) error {
	return s.record(domain.KindError, command, message)
}

// PrintResult records a result report.
func (s *Sink) PrintResult(command, message string) error {
	return s.record(domain.KindResult, command, message)
}

func (s *Sink) record(kind domain.Kind, command, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return s.failErr
	}
	s.reports = append(s.reports, domain.NewReport(kind, command, message))
	return nil
}

// FailWith makes every following call return err without recording.
// A nil err restores normal behaviour.
func (s *Sink) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Reports returns a copy of the recorded reports, oldest first.
func (s *Sink) Reports() []domain.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Reset discards all recorded reports.
func (s *Sink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = nil
}
