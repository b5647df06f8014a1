package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/damascout/internal/config"
	"github.com/aretw0/damascout/internal/logging"
	"github.com/aretw0/damascout/pkg/adapters/redis"
)

// DefaultTailLimit is how many stored reports tail prints without a limit.
const DefaultTailLimit = 10

// TailOptions configures a tail run against the Redis report store.
type TailOptions struct {
	Config config.Config
	Out    io.Writer
	ErrOut io.Writer
	Limit  int64
	Follow bool

	// Ready, when set, is closed once a follow subscription is live.
	Ready chan<- struct{}
}

// Tail prints the newest stored reports as JSON lines, oldest first, and
// with Follow keeps printing new ones until ctx is done. The output is
// accepted as input by Pipe.
func Tail(ctx context.Context, opts TailOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultTailLimit
	}
	cfg := opts.Config
	logger := logging.ForDebug(cfg.Debug, opts.ErrOut)

	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redis.WithPrefix(cfg.Redis.Prefix),
		redis.WithMaxLen(cfg.Redis.MaxLen),
	)
	defer store.Close()

	reports, err := store.Recent(ctx, opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to read reports from %s: %w", cfg.Redis.Addr, err)
	}

	enc := json.NewEncoder(opts.Out)
	for _, report := range reports {
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	if !opts.Follow {
		return nil
	}

	live, err := store.Subscribe(ctx)
	if err != nil {
		return err
	}
	logger.Debug("following reports", "channel", store.Channel())
	if opts.Ready != nil {
		close(opts.Ready)
	}

	for report := range live {
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
