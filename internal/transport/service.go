package transport

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultInboxSize bounds the number of undelivered messages per service.
// When the inbox is full the reader goroutine stops reading, which pushes
// back onto the socket's own queue.
const DefaultInboxSize = 256

// Option configures a service.
type Option func(*options)

type options struct {
	inbox   int
	logger  *slog.Logger
	tickets *Tickets
}

// WithInboxSize overrides DefaultInboxSize.
func WithInboxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.inbox = n
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTickets makes a command service continue an existing ticket sequence.
func WithTickets(t *Tickets) Option {
	return func(o *options) { o.tickets = t }
}

func buildOptions(opts []Option) options {
	o := options{inbox: DefaultInboxSize, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Service is the connection to one logical remote service.
//
// A reader goroutine moves frames from the socket into a bounded inbox.
// Everything else, Poll included, runs on the pump goroutine. After Close,
// Poll never returns anything, even if frames were still buffered.
type Service struct {
	endpoint Endpoint
	socket   Socket
	logger   *slog.Logger

	inbox chan []byte
	done  chan struct{}

	closeOnce  sync.Once
	closed     atomic.Bool
	terminated atomic.Bool
	idle       int
}

func newService(ep Endpoint, sock Socket, o options) *Service {
	s := &Service{
		endpoint: ep,
		socket:   sock,
		logger:   o.logger.With("service", ep.Service),
		inbox:    make(chan []byte, o.inbox),
		done:     make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Service) readLoop() {
	for {
		frames, err := s.socket.Recv()
		if err != nil {
			if !s.closed.Load() {
				s.logger.Warn("socket receive failed", "endpoint", s.endpoint.ConnString(), "error", err)
			}
			return
		}
		if len(frames) == 0 {
			continue
		}
		// Broadcast frames are [topic, payload]; dealer frames are [payload].
		payload := frames[len(frames)-1]
		select {
		case s.inbox <- payload:
		case <-s.done:
			return
		}
	}
}

// Endpoint returns the endpoint the service was opened for.
func (s *Service) Endpoint() Endpoint { return s.endpoint }

// Name returns the logical service name.
func (s *Service) Name() string { return s.endpoint.Service }

// Poll returns the next received frame without blocking.
func (s *Service) Poll() ([]byte, bool) {
	if s.closed.Load() {
		return nil, false
	}
	select {
	case b := <-s.inbox:
		s.idle = 0
		return b, true
	default:
		return nil, false
	}
}

// Ping is called once per pump cycle.
func (s *Service) Ping() {
	s.idle++
}

// IdleCycles reports how many pump cycles passed since the last frame.
func (s *Service) IdleCycles() int { return s.idle }

// Terminate marks the channel as failed. The owner tears it down.
func (s *Service) Terminate() {
	if s.terminated.CompareAndSwap(false, true) {
		s.logger.Warn("service terminated", "endpoint", s.endpoint.ConnString())
	}
}

func (s *Service) IsTerminated() bool { return s.terminated.Load() }

// Close shuts the socket down and discards undelivered frames.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.done)
		err = s.socket.Close()
	drain:
		for {
			select {
			case <-s.inbox:
			default:
				break drain
			}
		}
	})
	return err
}
