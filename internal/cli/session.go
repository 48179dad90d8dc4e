package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/mksync/internal/config"
	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/journal"
	"github.com/roach88/mksync/internal/metrics"
	"github.com/roach88/mksync/internal/transport"
)

// Step runs on the pump goroutine after every pump cycle. Returning true
// ends the session.
type Step func(e *engine.Engine) (done bool, err error)

// SessionOptions selects the optional parts of a session.
type SessionOptions struct {
	// Watch reloads endpoints when the config file changes.
	Watch bool
	// Serve exposes metrics when the config names an address.
	Serve bool
}

// Session is one connection to the machine for the lifetime of a command.
//
// The engine is driven by a single pump goroutine started by Run. Journal
// recording and Step callbacks run on it too.
type Session struct {
	cfg      *config.Config
	logger   *slog.Logger
	engine   *engine.Engine
	journal  *journal.Journal
	recorder *journal.Recorder
	registry *prometheus.Registry
	watcher  *config.Watcher
	serve    bool
}

// OpenSession loads the config, opens the journal and connects every
// configured endpoint.
func OpenSession(ctx context.Context, opts *RootOptions, so SessionOptions, logOut io.Writer) (*Session, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, Failure(ExitCommandError, ErrCodeConfig, "failed to load config", err)
	}
	logger, err := newLogger(cfg, opts.Verbose, logOut)
	if err != nil {
		return nil, Failure(ExitCommandError, ErrCodeConfig, "invalid log settings", err)
	}

	s := &Session{cfg: cfg, logger: logger, serve: so.Serve}

	engineOpts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithHalComponents(cfg.HAL.Components...),
	}
	if cfg.Poll.MaxMessages > 0 {
		engineOpts = append(engineOpts, engine.WithMaxMessages(cfg.Poll.MaxMessages))
	}
	if cfg.Metrics.Addr != "" {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m, err := metrics.New(s.registry)
		if err != nil {
			return nil, Failure(ExitCommandError, ErrCodeGeneric, "failed to register metrics", err)
		}
		engineOpts = append(engineOpts, engine.WithMetrics(m))
	}

	dialer := opts.Dialer
	if dialer == nil {
		dialer = transport.ZMQDialer{}
	}
	s.engine = engine.New(dialer, engineOpts...)

	if cfg.Journal.Path != "" {
		var jopts []journal.Option
		if opts.SessionIDs != nil {
			jopts = append(jopts, journal.WithSessionIDs(opts.SessionIDs))
		}
		j, err := journal.Open(cfg.Journal.Path, jopts...)
		if err != nil {
			s.Close()
			return nil, Failure(ExitCommandError, ErrCodeJournal, "failed to open journal", err)
		}
		s.journal = j
		sess, err := j.StartSession(ctx, cfg.Machine)
		if err != nil {
			s.Close()
			return nil, Failure(ExitCommandError, ErrCodeJournal, "failed to start journal session", err)
		}
		s.recorder = journal.NewRecorder(j, sess.ID, logger)
		s.recorder.Attach(s.engine)
		logger.Info("journal session started", "session", sess.ID, "path", cfg.Journal.Path)
	}

	// Run has not started yet, so this goroutine still owns the engine.
	if err := s.engine.UpdateEndpoints(ctx, cfg.Endpoints); err != nil {
		s.Close()
		return nil, Failure(ExitCommandError, ErrCodeConnect, "failed to connect", err)
	}

	if so.Watch {
		w, err := config.NewWatcher(opts.Config, cfg.Endpoints, logger)
		if err != nil {
			s.Close()
			return nil, Failure(ExitCommandError, ErrCodeConfig, "failed to watch config", err)
		}
		s.watcher = w
	}
	logger.Info("session open", "machine", cfg.Machine, "endpoints", len(cfg.Endpoints))
	return s, nil
}

func (s *Session) Config() *config.Config    { return s.cfg }
func (s *Session) Engine() *engine.Engine    { return s.engine }
func (s *Session) Logger() *slog.Logger      { return s.logger }
func (s *Session) Journal() *journal.Journal { return s.journal }

// Run drives the engine until step reports done, step fails or ctx ends.
// The config watcher and metrics server run alongside the pump.
func (s *Session) Run(ctx context.Context, step Step) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return s.pump(gctx, step)
	})
	if s.watcher != nil {
		g.Go(func() error {
			return s.watcher.Run(gctx, func(cfg *config.Config) {
				eps := cfg.Endpoints
				s.engine.Submit(func(e *engine.Engine) {
					if err := e.UpdateEndpoints(gctx, eps); err != nil {
						s.logger.Warn("endpoint update failed", "error", err)
					}
				})
			})
		})
	}
	if s.serve && s.registry != nil {
		g.Go(func() error {
			s.logger.Info("serving metrics", "addr", s.cfg.Metrics.Addr)
			return metrics.Serve(gctx, s.cfg.Metrics.Addr, s.registry)
		})
	}
	return g.Wait()
}

func (s *Session) pump(ctx context.Context, step Step) error {
	ticker := time.NewTicker(s.cfg.Poll.Interval)
	defer ticker.Stop()

	for {
		s.engine.Pump(ctx)
		if step != nil {
			done, err := step(s.engine)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-s.engine.Wait():
		}
	}
}

// Close shuts the engine down and closes the journal.
func (s *Session) Close() error {
	var errs []error
	if s.engine != nil {
		if s.recorder != nil {
			s.recorder.Detach(s.engine)
		}
		errs = append(errs, s.engine.Close())
	}
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	return errors.Join(errs...)
}

// newLogger builds the session logger from the config. Verbose forces debug.
func newLogger(cfg *config.Config, verbose bool, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch cfg.Log.Format {
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	default:
		return nil, fmt.Errorf("config.log.format %q is not one of text, json", cfg.Log.Format)
	}
	return slog.New(h).With("machine", cfg.Machine), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan) // Prevent signal handler leak
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// isShutdown reports errors that mean the session's context ended.
func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
