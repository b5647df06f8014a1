package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/damascout/internal/config"
	"github.com/aretw0/damascout/internal/logging"
	"github.com/aretw0/damascout/internal/metrics"
	httpAdapter "github.com/aretw0/damascout/pkg/adapters/http"
)

// shutdownTimeout bounds how long in-flight requests may take on shutdown.
const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Config config.Config
	Out    io.Writer
	ErrOut io.Writer

	// Listener, when set, is used instead of listening on Config.HTTP.Port.
	Listener net.Listener

	// Ready, when set, receives the bound address once the server accepts.
	Ready chan<- string
}

// Serve exposes the router over HTTP. Reports posted to /reports are
// broadcast to /events subscribers and fall back to the console when
// nobody is listening. Serve returns when ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	cfg := opts.Config
	logger := logging.ForDebug(cfg.Debug, opts.ErrOut)

	hub := httpAdapter.NewHub(cfg.HTTP.Buffer, logger)
	collector := metrics.New()

	asm, err := createRouter(RouterOptions{
		Config:   cfg,
		ErrOut:   opts.ErrOut,
		Out:      opts.Out,
		Logger:   logger,
		Observer: collector,
		Sink:     hub,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	defer asm.Close()

	handler := httpAdapter.NewHandler(asm.Router, hub,
		httpAdapter.WithMetrics(collector.Handler()),
		httpAdapter.WithLogger(logger),
	)

	ln := opts.Listener
	if ln == nil {
		ln, err = net.Listen("tcp", ":"+cfg.HTTP.Port)
		if err != nil {
			return fmt.Errorf("failed to listen on port %s: %w", cfg.HTTP.Port, err)
		}
	}

	srv := &http.Server{
		Handler: handler,
		// Streams end with the server context instead of holding Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()
	if opts.Ready != nil {
		opts.Ready <- ln.Addr().String()
	}

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down server")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
		return nil
	}
}
