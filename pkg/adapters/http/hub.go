package http

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/damascout/pkg/domain"
)

// DefaultBuffer is the per-subscriber report buffer.
const DefaultBuffer = 16

// HistorySize is how many broadcast reports the hub remembers.
const HistorySize = 100

// Hub implements ports.Sink by broadcasting reports to SSE subscribers.
// A slow subscriber loses reports instead of blocking the router.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan domain.Report]struct{}
	buffer      int
	logger      *slog.Logger

	historyMu sync.Mutex
	history   []domain.Report
}

// NewHub creates a hub. buffer <= 0 uses DefaultBuffer.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[chan domain.Report]struct{}),
		buffer:      buffer,
		logger:      logger,
	}
}

// Subscribe registers a new listener. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan domain.Report, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan domain.Report, h.buffer)
	h.subscribers[ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers returns the number of active listeners.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Present reports whether anyone is subscribed. The router routes reports
// to the console while it is false.
func (h *Hub) Present() bool {
	return h.Subscribers() > 0
}

// PrintError broadcasts an error report.
func (h *Hub) PrintError(command, message string) error {
	return h.Broadcast(domain.NewReport(domain.KindError, command, message))
}

// PrintResult broadcasts a result report.
func (h *Hub) PrintResult(command, message string) error {
	return h.Broadcast(domain.NewReport(domain.KindResult, command, message))
}

// Broadcast delivers report to every subscriber with buffer room.
// It returns domain.ErrNoSubscribers when the last subscriber left after the
// router checked Present.
func (h *Hub) Broadcast(report domain.Report) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.subscribers) == 0 {
		return domain.ErrNoSubscribers
	}

	h.remember(report)

	for ch := range h.subscribers {
		select {
		case ch <- report:
		default:
			// Drop report if channel is full (slow client)
			h.logger.Warn("SSE: client buffer full, dropping report", "id", report.ID, "kind", report.Kind)
		}
	}
	return nil
}

func (h *Hub) remember(report domain.Report) {
	h.historyMu.Lock()
	defer h.historyMu.Unlock()

	h.history = append(h.history, report)
	if over := len(h.history) - HistorySize; over > 0 {
		h.history = append(h.history[:0:0], h.history[over:]...)
	}
}

// Recent returns up to n of the latest broadcast reports, oldest first.
func (h *Hub) Recent(_ context.Context, n int64) ([]domain.Report, error) {
	h.historyMu.Lock()
	defer h.historyMu.Unlock()

	start := 0
	if n >= 0 && int64(len(h.history)) > n {
		start = len(h.history) - int(n)
	}
	out := make([]domain.Report, len(h.history)-start)
	copy(out, h.history[start:])
	return out, nil
}
