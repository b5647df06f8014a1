package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/damascout/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const (
	defaultPrefix  = "damasc:output:"
	defaultMaxLen  = 1000
	defaultTimeout = 2 * time.Second
)

// Sink implements ports.Sink using Redis.
// Each report is pushed onto a capped list and published on a channel so
// pages and tail processes can both follow the output.
type Sink struct {
	client  *backend.Client
	prefix  string
	maxLen  int64
	timeout time.Duration
}

type Option func(*Sink)

// WithPrefix sets the key prefix for the report list and channel.
func WithPrefix(prefix string) Option {
	return func(s *Sink) {
		s.prefix = prefix
	}
}

// WithMaxLen caps the number of reports kept in the list. Zero or less keeps all.
func WithMaxLen(n int64) Option {
	return func(s *Sink) {
		s.maxLen = n
	}
}

// WithTimeout bounds each Redis round-trip.
func WithTimeout(d time.Duration) Option {
	return func(s *Sink) {
		s.timeout = d
	}
}

// New creates a new Redis sink with options.
func New(address, password string, db int, opts ...Option) *Sink {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis sink from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Sink {
	sink := &Sink{
		client:  client,
		prefix:  defaultPrefix,
		maxLen:  defaultMaxLen,
		timeout: defaultTimeout,
	}

	for _, opt := range opts {
		opt(sink)
	}

	return sink
}

// ListKey is the list holding recent reports, newest first.
func (s *Sink) ListKey() string {
	return s.prefix + "reports"
}

// Channel is the pub/sub channel reports are published on.
func (s *Sink) Channel() string {
	return s.prefix + "events"
}

// PrintError stores and publishes an error report.
func (s *Sink) PrintError(command, message string) error {
	return s.push(domain.NewReport(domain.KindError, command, message))
}

// PrintResult stores and publishes a result report.
func (s *Sink) PrintResult(command, message string) error {
	return s.push(domain.NewReport(domain.KindResult, command, message))
}

func (s *Sink) push(report domain.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, s.ListKey(), data)
	if s.maxLen > 0 {
		pipe.LTrim(ctx, s.ListKey(), 0, s.maxLen-1)
	}
	pipe.Publish(ctx, s.Channel(), data)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push report to redis: %w", err)
	}
	return nil
}

// Recent returns up to n of the newest reports, oldest first.
// n <= 0 returns every stored report.
func (s *Sink) Recent(ctx context.Context, n int64) ([]domain.Report, error) {
	stop := n - 1
	if n <= 0 {
		stop = -1
	}

	vals, err := s.client.LRange(ctx, s.ListKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read reports: %w", err)
	}

	reports := make([]domain.Report, len(vals))
	for i, v := range vals {
		var r domain.Report
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		// The list is newest first.
		reports[len(vals)-1-i] = r
	}
	return reports, nil
}

// Subscribe follows reports published after the call. The channel closes
// when ctx is done.
func (s *Sink) Subscribe(ctx context.Context) (<-chan domain.Report, error) {
	sub := s.client.Subscribe(ctx, s.Channel())
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan domain.Report)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var r domain.Report
				if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
					continue
				}
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the redis client.
func (s *Sink) Close() error {
	return s.client.Close()
}
