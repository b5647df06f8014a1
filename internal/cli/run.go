package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/damascout/internal/config"
	"github.com/aretw0/damascout/internal/logging"
	"github.com/aretw0/damascout/pkg/ports"
)

// PipeOptions configures a pipe run.
type PipeOptions struct {
	Config   config.Config
	In       io.Reader
	Out      io.Writer
	ErrOut   io.Writer
	Observer ports.Observer
}

// Pipe reads reports from In and routes them until EOF or cancellation.
// With the memory sink, captured reports are written to Out as JSON lines
// once the input is exhausted.
func Pipe(ctx context.Context, opts PipeOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	logger := logging.ForDebug(opts.Config.Debug, opts.ErrOut)

	asm, err := createRouter(RouterOptions{
		Config:   opts.Config,
		ErrOut:   opts.ErrOut,
		Out:      opts.Out,
		Logger:   logger,
		Observer: opts.Observer,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	defer func() {
		if err := asm.Close(); err != nil {
			logger.Warn("failed to close sink", "error", err)
		}
	}()

	routed, runErr := RunPipe(ctx, opts.In, asm.Router, logger)
	logger.Debug("pipe finished", "routed", routed, "sink", asm.Router.HasSink())

	if asm.Captured != nil {
		enc := json.NewEncoder(opts.Out)
		for _, report := range asm.Captured.Reports() {
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("failed to write captured report: %w", err)
			}
		}
	}
	return runErr
}
