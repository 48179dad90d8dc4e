package engine

import (
	"log/slog"
	"slices"

	"github.com/roach88/mksync/internal/command"
	"github.com/roach88/mksync/internal/metrics"
	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/transport"
	"github.com/roach88/mksync/internal/wire"
)

// EventKind distinguishes dispatcher and service events.
type EventKind int

const (
	// EventCommandChanged reports a lifecycle transition of a command.
	EventCommandChanged EventKind = iota + 1
	// EventTerminated reports a channel-fatal error; the service is torn down.
	EventTerminated
	// EventConnected reports a service opened or replaced.
	EventConnected
	// EventDisconnected reports a service closed.
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventCommandChanged:
		return "command"
	case EventTerminated:
		return "terminated"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Event is the payload published by dispatchers and the engine.
type Event struct {
	Kind     EventKind
	Service  string
	Command  *command.Command
	Endpoint transport.Endpoint
	Notes    []string
	Err      error
}

// Observer receives events. The source is the service name.
type Observer = notify.Observer[Event]

// Dispatcher correlates commands sent on one command service with the
// replies that come back for their tickets.
//
// Thread-safety: owned by the pump goroutine. Only ticket allocation,
// inside the bound CommandService, is safe from other goroutines; other
// callers go through Engine.Submit.
//
// INVARIANTS:
//   - at most one outstanding command per ticket
//   - tickets are never reused while the counter lives
//   - a command leaves the outstanding map only once Completed
type Dispatcher struct {
	name    string
	logger  *slog.Logger
	metrics *metrics.Metrics

	service     *transport.CommandService
	outstanding map[int32]*command.Command
	sequences   []*Sequence
	bus         notify.Bus[Event]
}

// NewDispatcher creates an unbound dispatcher for the named service.
func NewDispatcher(name string, logger *slog.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		name:        name,
		logger:      logger.With("service", name),
		metrics:     m,
		outstanding: make(map[int32]*command.Command),
	}
}

// Bind attaches the command service. Nil unbinds. Outstanding commands and
// sequences survive rebinding.
func (d *Dispatcher) Bind(svc *transport.CommandService) {
	d.service = svc
}

func (d *Dispatcher) Service() *transport.CommandService { return d.service }

func (d *Dispatcher) Name() string { return d.name }

// Attach registers obs for every event of this dispatcher.
func (d *Dispatcher) Attach(obs Observer) { d.bus.Attach(obs) }

func (d *Dispatcher) Detach(obs Observer) { d.bus.Detach(obs) }

// SendCommand stamps a fresh ticket on cmd, records it as outstanding and
// transmits it. A command that expects no reply is Completed before
// SendCommand returns. Failures are logged, never returned: a command that
// never reaches Completed is the caller's signal. A command that cannot be
// transmitted becomes Obsolete and aborts the sequences waiting on it.
func (d *Dispatcher) SendCommand(cmd *command.Command) {
	if d.service == nil {
		d.logger.Warn("no command service bound, command not sent", "command", cmd.String())
		return
	}
	if cmd.State() != command.StateCreated {
		d.logger.Warn("command already submitted", "command", cmd.String(), "state", cmd.State())
		return
	}

	ticket := d.service.NewTicket()
	cmd.Stamp(ticket)
	b, err := cmd.Serialize()
	if err != nil {
		d.logger.Error("command not sent", "command", cmd.String(), "error", err)
		return
	}

	d.outstanding[ticket] = cmd
	cmd.MarkSent()
	if err := d.service.Send(b); err != nil {
		d.logger.Error("send failed", "command", cmd.String(), "error", err)
		delete(d.outstanding, ticket)
		cmd.MarkObsolete()
		d.bus.Notify(d.name, Event{Kind: EventCommandChanged, Service: d.name, Command: cmd, Err: err})
		d.undeliverable(cmd)
		return
	}
	d.metrics.CommandSent(d.name)
	d.logger.Debug("command sent", "command", cmd.String(), "ticket", ticket)

	if !cmd.ExpectsReply() {
		cmd.MarkCompleted()
		d.changed(cmd)
		return
	}
	d.track()
}

// SendCommands sends a single command directly. Several elements become a
// sequence of one-element batches, each waiting for the previous one.
// It returns the sequence, or nil when none was created.
func (d *Dispatcher) SendCommands(elems ...command.Element) *Sequence {
	switch len(elems) {
	case 0:
		return nil
	case 1:
		if cmd, ok := elems[0].(*command.Command); ok {
			d.SendCommand(cmd)
			return nil
		}
	}
	batches := make([]command.Batch, len(elems))
	for i, e := range elems {
		batches[i] = command.Batch{e}
	}
	return d.SendCommandSequence(batches)
}

// SendCommandSequence starts tracking a new sequence and sends its first
// batch immediately.
func (d *Dispatcher) SendCommandSequence(batches []command.Batch) *Sequence {
	s := newSequence(d, batches)
	d.sequences = append(d.sequences, s)
	s.start()
	d.prune()
	d.track()
	return s
}

// AbortCommandSequence stops every tracked sequence. Already transmitted
// commands are not cancelled; their replies are still processed and still
// reach observers.
func (d *Dispatcher) AbortCommandSequence() {
	if len(d.sequences) == 0 {
		return
	}
	for _, s := range d.sequences {
		s.abort()
	}
	d.logger.Info("command sequences aborted", "count", len(d.sequences))
	d.sequences = nil
	d.track()
}

// Process handles one container received on the command service. The
// returned error describes what was handled locally; it is informational.
func (d *Dispatcher) Process(c *wire.Container) error {
	switch msg := wire.Classify(c).(type) {
	case wire.Heartbeat:
		return nil

	case wire.ChannelError:
		err := newChannelFatal(d.name, msg.Notes)
		for _, note := range msg.Notes {
			d.logger.Error("channel error", "note", note)
		}
		if d.service != nil {
			d.service.Terminate()
		}
		d.metrics.Terminated(d.name)
		d.bus.Notify(d.name, Event{Kind: EventTerminated, Service: d.name, Notes: msg.Notes, Err: err})
		return err

	case wire.CommandReply:
		cmd, ok := d.outstanding[msg.Ticket]
		if !ok {
			err := newCorrelationMiss(d.name, msg.Ticket)
			d.logger.Warn("reply for unknown ticket dropped", "ticket", msg.Ticket, "stage", msg.Stage)
			d.metrics.CorrelationMiss(d.name)
			return err
		}
		switch msg.Stage {
		case wire.StageExecuted:
			cmd.MarkExecuted()
		case wire.StageCompleted:
			cmd.MarkCompleted()
		}
		d.metrics.Reply(d.name, msg.Stage.String())
		d.changed(cmd)
		return nil

	default:
		d.logger.Debug("ignoring container on command channel", "type", c.Type)
		return nil
	}
}

// changed publishes a transition: observers first, then sequences react,
// then inactive sequences are pruned and a Completed ticket is released.
func (d *Dispatcher) changed(cmd *command.Command) {
	d.bus.Notify(d.name, Event{Kind: EventCommandChanged, Service: d.name, Command: cmd})

	completed := cmd.IsCompleted()
	if completed {
		for _, s := range d.sequences {
			s.onCommandCompleted(cmd)
		}
	}
	d.prune()
	if completed {
		if d.outstanding[cmd.Ticket()] == cmd {
			delete(d.outstanding, cmd.Ticket())
		}
	}
	d.track()
}

// undeliverable aborts every sequence waiting on cmd. A command that never
// left the process cannot complete, so its sequence could never advance.
func (d *Dispatcher) undeliverable(cmd *command.Command) {
	for _, s := range d.sequences {
		if s.waitsOn(cmd) {
			d.logger.Warn("command sequence aborted", "command", cmd.String(), "remaining", s.Remaining())
			s.abort()
		}
	}
	d.prune()
	d.track()
}

// Ping advances every tracked sequence by one tick.
func (d *Dispatcher) Ping() {
	for _, s := range slices.Clone(d.sequences) {
		s.tick()
	}
	d.prune()
	d.track()
}

func (d *Dispatcher) prune() {
	d.sequences = slices.DeleteFunc(d.sequences, func(s *Sequence) bool { return !s.IsActive() })
}

func (d *Dispatcher) track() {
	d.metrics.Track(d.name, len(d.outstanding), len(d.sequences))
}

// Outstanding returns the number of commands awaiting completion.
func (d *Dispatcher) Outstanding() int { return len(d.outstanding) }

// Lookup returns the outstanding command for ticket.
func (d *Dispatcher) Lookup(ticket int32) (*command.Command, bool) {
	cmd, ok := d.outstanding[ticket]
	return cmd, ok
}

// Sequences returns the number of tracked sequences.
func (d *Dispatcher) Sequences() int { return len(d.sequences) }
