package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ErrInterrupted is the cancellation cause of a context stopped by SIGINT or SIGTERM.
var ErrInterrupted = errors.New("interrupted")

// NotifyContext returns a context that is cancelled on SIGINT or SIGTERM with
// a cause wrapping ErrInterrupted and naming the signal. Unlike
// signal.NotifyContext, the stop func also cancels the context.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			cancel(fmt.Errorf("%w by %s", ErrInterrupted, sig))
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// Interrupted reports whether ctx ended because of a signal.
func Interrupted(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrInterrupted)
}
