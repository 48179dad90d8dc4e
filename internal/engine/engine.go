package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/mksync/internal/hal"
	"github.com/roach88/mksync/internal/metrics"
	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/operator"
	"github.com/roach88/mksync/internal/status"
	"github.com/roach88/mksync/internal/transport"
	"github.com/roach88/mksync/internal/wire"
)

// DefaultMaxMessages bounds the frames one Pump call routes, so a chatty
// service cannot starve the tick.
const DefaultMaxMessages = 256

// serviceOrder is the order services are opened and polled in.
var serviceOrder = []string{
	transport.ServiceCommand,
	transport.ServiceStatus,
	transport.ServiceError,
	transport.ServiceHalrcomp,
	transport.ServiceHalrcmd,
}

// service is what the pump needs from an open transport service.
type service interface {
	Poll() ([]byte, bool)
	Ping()
	Terminate()
	IsTerminated() bool
	Close() error
	Endpoint() transport.Endpoint
	Name() string
}

var (
	_ service = (*transport.CommandService)(nil)
	_ service = (*transport.BroadcastService)(nil)
)

// Engine is the context object tying one controller's services together.
//
// CRITICAL: Pump, UpdateEndpoints and everything reached through the
// accessors run on one goroutine, the pump goroutine. Other goroutines use
// Submit to hand work to it.
//
// Thread-safety model:
//   - Submit(), Wait(): safe from any goroutine
//   - everything else: pump goroutine only
type Engine struct {
	dialer  transport.Dialer
	logger  *slog.Logger
	metrics *metrics.Metrics

	maxMessages   int
	inboxSize     int
	statusTopics  []string
	halComponents []string

	// Ticket counters outlive the services so tickets are never reused
	// across reconnects.
	commandTickets *transport.Tickets
	halTickets     *transport.Tickets

	commands *Dispatcher
	halcmd   *Dispatcher
	status   *status.Mirror
	notices  *operator.Log
	hal      *hal.Mirror

	services map[string]service
	bus      notify.Bus[Event]
	queue    *taskQueue
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithMaxMessages sets the per-Pump routing bound.
//
// Default: 256 (DefaultMaxMessages)
func WithMaxMessages(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxMessages = n
		}
	}
}

// WithInboxSize sets the per-service inbox bound.
func WithInboxSize(n int) Option {
	return func(e *Engine) { e.inboxSize = n }
}

// WithStatusTopics limits the status subscription. Default is every topic.
func WithStatusTopics(topics ...wire.StatusTopic) Option {
	return func(e *Engine) {
		e.statusTopics = make([]string, len(topics))
		for i, t := range topics {
			e.statusTopics[i] = string(t)
		}
	}
}

// WithHalComponents sets the components subscribed on halrcomp.
//
// Default: the manual tool change component.
func WithHalComponents(names ...string) Option {
	return func(e *Engine) { e.halComponents = slices.Clone(names) }
}

// New creates an Engine with no open services.
func New(d transport.Dialer, opts ...Option) *Engine {
	e := &Engine{
		dialer:         d,
		logger:         slog.Default(),
		maxMessages:    DefaultMaxMessages,
		halComponents:  []string{hal.ToolChangeComponent},
		commandTickets: transport.NewTickets(),
		halTickets:     transport.NewTickets(),
		services:       make(map[string]service),
		queue:          newTaskQueue(),
	}
	for _, t := range wire.StatusTopics {
		e.statusTopics = append(e.statusTopics, string(t))
	}
	for _, opt := range opts {
		opt(e)
	}

	e.commands = NewDispatcher(transport.ServiceCommand, e.logger, e.metrics)
	e.halcmd = NewDispatcher(transport.ServiceHalrcmd, e.logger, e.metrics)
	e.status = status.New(e.logger)
	e.notices = operator.New(e.logger, 0)
	e.hal = hal.New(e.logger)
	return e
}

// Commands is the dispatcher of the command service.
func (e *Engine) Commands() *Dispatcher { return e.commands }

// HalCommands is the dispatcher of the halrcmd service.
func (e *Engine) HalCommands() *Dispatcher { return e.halcmd }

func (e *Engine) Status() *status.Mirror    { return e.status }
func (e *Engine) Notices() *operator.Log    { return e.notices }
func (e *Engine) HAL() *hal.Mirror          { return e.hal }
func (e *Engine) Logger() *slog.Logger      { return e.logger }
func (e *Engine) Metrics() *metrics.Metrics { return e.metrics }

// Attach registers obs for service lifecycle events: connected,
// disconnected and terminated. Sources are service names; none means all.
func (e *Engine) Attach(obs Observer, services ...string) { e.bus.Attach(obs, services...) }

func (e *Engine) Detach(obs Observer) { e.bus.Detach(obs) }

// Submit hands fn to the pump goroutine. It runs at the start of the next
// Pump. Returns false once the engine is closed.
func (e *Engine) Submit(fn Task) bool {
	return e.queue.Enqueue(fn)
}

// Wait signals that submitted work is pending. A driver may select on it to
// pump early.
func (e *Engine) Wait() <-chan struct{} { return e.queue.Wait() }

// Endpoints returns the endpoints of the open services in poll order.
func (e *Engine) Endpoints() []transport.Endpoint {
	var out []transport.Endpoint
	for _, name := range serviceOrder {
		if svc, ok := e.services[name]; ok {
			out = append(out, svc.Endpoint())
		}
	}
	return out
}

// UpdateEndpoints reconciles the open services with eps. Missing services
// are opened, services whose connection string changed are closed and
// reopened, and services absent from eps are closed. Dial failures are
// joined into the returned error; the other services are still updated.
func (e *Engine) UpdateEndpoints(ctx context.Context, eps []transport.Endpoint) error {
	want := make(map[string]transport.Endpoint, len(eps))
	for _, ep := range eps {
		if !slices.Contains(serviceOrder, ep.Service) {
			e.logger.Debug("ignoring endpoint for unsupported service", "service", ep.Service)
			continue
		}
		want[ep.Service] = ep
	}

	for _, name := range serviceOrder {
		if _, ok := want[name]; !ok {
			e.closeService(name, "endpoint withdrawn")
		}
	}

	var errs []error
	for _, name := range serviceOrder {
		ep, ok := want[name]
		if !ok {
			continue
		}
		if svc, open := e.services[name]; open {
			if !svc.Endpoint().Stale(ep) {
				continue
			}
			e.logger.Info("replacing stale service", "service", name,
				"old", svc.Endpoint().ConnString(), "new", ep.ConnString())
			e.closeService(name, "endpoint changed")
		}
		if err := e.open(ctx, ep); err != nil {
			e.logger.Error("failed to open service", "service", name, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *Engine) serviceOptions() []transport.Option {
	return []transport.Option{transport.WithLogger(e.logger), transport.WithInboxSize(e.inboxSize)}
}

func (e *Engine) open(ctx context.Context, ep transport.Endpoint) error {
	var svc service
	switch ep.Service {
	case transport.ServiceCommand, transport.ServiceHalrcmd:
		d, tickets := e.commands, e.commandTickets
		if ep.Service == transport.ServiceHalrcmd {
			d, tickets = e.halcmd, e.halTickets
		}
		cs, err := transport.DialCommand(ctx, e.dialer, ep, append(e.serviceOptions(), transport.WithTickets(tickets))...)
		if err != nil {
			return err
		}
		d.Bind(cs)
		svc = cs

	case transport.ServiceStatus, transport.ServiceError, transport.ServiceHalrcomp:
		topics := e.statusTopics
		switch ep.Service {
		case transport.ServiceError:
			topics = operator.Topics
		case transport.ServiceHalrcomp:
			topics = e.halComponents
		}
		bs, err := transport.DialBroadcast(ctx, e.dialer, ep, topics, e.serviceOptions()...)
		if err != nil {
			return err
		}
		svc = bs

	default:
		return fmt.Errorf("unsupported service %q", ep.Service)
	}

	e.services[ep.Service] = svc
	e.metrics.Connect(ep.Service)
	e.logger.Info("service connected", "service", ep.Service, "endpoint", ep.ConnString())
	e.bus.Notify(ep.Service, Event{Kind: EventConnected, Service: ep.Service, Endpoint: ep})
	return nil
}

// closeService tears a service down. Mirrors fed by it are invalidated so
// nothing from the old connection is mistaken for current state.
func (e *Engine) closeService(name, reason string) {
	svc, ok := e.services[name]
	if !ok {
		return
	}
	delete(e.services, name)
	if err := svc.Close(); err != nil {
		e.logger.Warn("close failed", "service", name, "error", err)
	}

	switch name {
	case transport.ServiceCommand:
		e.commands.Bind(nil)
	case transport.ServiceHalrcmd:
		e.halcmd.Bind(nil)
	case transport.ServiceStatus:
		e.status.Reset()
	case transport.ServiceHalrcomp:
		e.hal.Reset()
	}
	e.logger.Info("service closed", "service", name, "reason", reason)
	e.bus.Notify(name, Event{Kind: EventDisconnected, Service: name, Endpoint: svc.Endpoint()})
}

// Pump runs one cycle: queued tasks, inbound frames until no service has
// one ready or the bound is hit, one ping for every service and dispatcher,
// then teardown of terminated services. It never blocks and returns the
// number of frames routed.
func (e *Engine) Pump(ctx context.Context) int {
	for {
		task, ok := e.queue.TryDequeue()
		if !ok {
			break
		}
		task(e)
	}

	routed := 0
	for routed < e.maxMessages && ctx.Err() == nil {
		progressed := false
		for _, name := range serviceOrder {
			if routed >= e.maxMessages {
				break
			}
			svc, ok := e.services[name]
			if !ok || svc.IsTerminated() {
				continue
			}
			b, ok := svc.Poll()
			if !ok {
				continue
			}
			progressed = true
			routed++
			e.route(svc, b)
		}
		if !progressed {
			break
		}
	}

	for _, name := range serviceOrder {
		if svc, ok := e.services[name]; ok {
			svc.Ping()
		}
	}
	e.commands.Ping()
	e.halcmd.Ping()

	for _, name := range serviceOrder {
		if svc, ok := e.services[name]; ok && svc.IsTerminated() {
			e.closeService(name, "terminated")
		}
	}
	return routed
}

func (e *Engine) route(svc service, b []byte) {
	name := svc.Name()
	c, err := wire.Decode(b)
	if err != nil {
		ferr := newDecodeFailed(name, err)
		e.logger.Warn("discarding malformed container", "service", name, "bytes", len(b), "error", ferr)
		e.metrics.DecodeFailure(name)
		return
	}

	switch msg := wire.Classify(c).(type) {
	case wire.Heartbeat:
		return
	case wire.ChannelError:
		e.terminated(svc, c, msg)
		return
	}

	switch name {
	case transport.ServiceCommand:
		_ = e.commands.Process(c)
	case transport.ServiceHalrcmd:
		_ = e.halcmd.Process(c)
	case transport.ServiceStatus:
		u := e.status.Process(c)
		if u.Kind == status.KindDropped {
			e.logger.Debug("status update dropped", "error", newStaleIncremental(string(u.Topic)))
		}
		if u.Kind != status.KindIgnored {
			e.metrics.StatusUpdate(string(u.Topic), u.Kind.String())
		}
	case transport.ServiceError:
		if n, ok := e.notices.Process(c); ok {
			e.metrics.Notice(string(n.Level))
		}
	case transport.ServiceHalrcomp:
		e.hal.Process(c)
	}
}

// terminated handles a channel-fatal container. Command channels go through
// their dispatcher so its observers see the terminal event.
func (e *Engine) terminated(svc service, c *wire.Container, msg wire.ChannelError) {
	name := svc.Name()
	var err error
	switch name {
	case transport.ServiceCommand:
		err = e.commands.Process(c)
	case transport.ServiceHalrcmd:
		err = e.halcmd.Process(c)
	default:
		err = newChannelFatal(name, msg.Notes)
		for _, note := range msg.Notes {
			e.logger.Error("channel error", "service", name, "note", note)
		}
		svc.Terminate()
		e.metrics.Terminated(name)
	}
	e.bus.Notify(name, Event{Kind: EventTerminated, Service: name, Endpoint: svc.Endpoint(), Notes: msg.Notes, Err: err})
}

// Close rejects further submissions and closes every service.
func (e *Engine) Close() error {
	e.queue.Close()
	var errs []error
	for _, name := range serviceOrder {
		svc, ok := e.services[name]
		if !ok {
			continue
		}
		if err := svc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(e.services, name)
	}
	e.commands.Bind(nil)
	e.halcmd.Bind(nil)
	return errors.Join(errs...)
}
