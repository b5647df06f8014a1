package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/damascout"
	"github.com/aretw0/damascout/internal/config"
	"github.com/aretw0/damascout/pkg/adapters/console"
	"github.com/aretw0/damascout/pkg/adapters/js"
	"github.com/aretw0/damascout/pkg/adapters/memory"
	"github.com/aretw0/damascout/pkg/adapters/redis"
	"github.com/aretw0/damascout/pkg/domain"
	"github.com/aretw0/damascout/pkg/ports"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// RouterOptions carries what createRouter needs besides the config.
type RouterOptions struct {
	Config   config.Config
	ErrOut   io.Writer
	Out      io.Writer
	Logger   *slog.Logger
	Observer ports.Observer

	// Sink, when set, replaces the sink named by Config.Sink.
	Sink ports.Sink
}

// Assembly is a ready router plus the resources behind it.
type Assembly struct {
	Router *damascout.Router

	// Captured is set when the memory sink is configured.
	Captured *memory.Sink

	closers []func() error
}

// Close releases sink resources.
func (a *Assembly) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// createRouter assembles console, sink and router with standard CLI conventions.
func createRouter(opts RouterOptions) (*Assembly, error) {
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	cfg := opts.Config

	con := console.New(opts.ErrOut, opts.Out, console.WithProfile(colorProfile(cfg.Color, opts.Out)))
	asm := &Assembly{}

	sink := opts.Sink
	if sink == nil {
		var err error
		sink, err = createSink(cfg, con, asm, opts.Logger)
		if err != nil {
			_ = asm.Close()
			return nil, err
		}
	}

	routerOpts := []damascout.Option{
		damascout.WithErrorPolicy(cfg.ErrorPolicy()),
		damascout.WithLogger(opts.Logger),
	}
	if sink != nil {
		routerOpts = append(routerOpts, damascout.WithSink(sink))
	}
	if opts.Observer != nil {
		routerOpts = append(routerOpts, damascout.WithObserver(opts.Observer))
	}

	asm.Router = damascout.New(con, routerOpts...)
	return asm, nil
}

// createSink returns nil (no sink) for SinkNone and for a JS host that did
// not define its output object.
func createSink(cfg config.Config, con ports.Console, asm *Assembly, logger *slog.Logger) (ports.Sink, error) {
	switch cfg.Sink {
	case config.SinkNone, "":
		return nil, nil

	case config.SinkMemory:
		asm.Captured = memory.NewSink()
		return asm.Captured, nil

	case config.SinkJS:
		sink, err := js.Load(con, cfg.Script, cfg.SinkName)
		if errors.Is(err, domain.ErrSinkNotFound) {
			logger.Warn("host script defines no output object, using console", "script", cfg.Script, "name", cfg.SinkName)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return sink, nil

	case config.SinkRedis:
		sink := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithMaxLen(cfg.Redis.MaxLen),
		)
		asm.closers = append(asm.closers, sink.Close)
		logger.Debug("redis sink ready", "addr", cfg.Redis.Addr, "list", sink.ListKey())
		return sink, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSink, cfg.Sink)
}

// colorProfile resolves the colour mode against the output writer.
func colorProfile(mode string, w io.Writer) termenv.Profile {
	switch mode {
	case config.ColorNever:
		return termenv.Ascii
	case config.ColorAlways:
		return termenv.ANSI256
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.EnvColorProfile()
	}
	return termenv.Ascii
}
