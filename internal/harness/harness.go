package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/mksync/internal/command"
	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/operator"
	"github.com/roach88/mksync/internal/testutil"
	"github.com/roach88/mksync/internal/transport"
	"github.com/roach88/mksync/internal/wire"
)

const (
	commandDSN = "inproc://harness/command"
	statusDSN  = "inproc://harness/status"
	errorDSN   = "inproc://harness/error"
)

// Harness plays the controller side of one scenario.
type Harness struct {
	engine *engine.Engine
	dialer *testutil.FakeDialer
	result *Result

	// sent counts the command frames already traced.
	sent int
	// sequence is the last sequence a flow step started.
	sequence *engine.Sequence
	// tracked holds every command a flow step handed to the dispatcher.
	tracked []*command.Command
	notices []operator.Notice
}

// Run executes a scenario against a fresh engine and returns the result.
//
// Execution flow:
//  1. Open command, status and error services on fake sockets
//  2. Publish the initial status as full updates
//  3. Execute the flow, pumping the engine after every step
//  4. Evaluate assertions against the trace and the final state
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	d := testutil.NewFakeDialer()
	e := engine.New(d, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer e.Close()

	err := e.UpdateEndpoints(ctx, []transport.Endpoint{
		{Service: transport.ServiceCommand, DSN: commandDSN},
		{Service: transport.ServiceStatus, DSN: statusDSN},
		{Service: transport.ServiceError, DSN: errorDSN},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open services: %w", err)
	}

	h := &Harness{
		engine: e,
		dialer: d,
		result: NewResult(),
	}

	if err := h.publish(scenario.Status, wire.MTEmcstatFullUpdate); err != nil {
		return nil, fmt.Errorf("failed to publish initial status: %w", err)
	}
	e.Pump(ctx)

	detach := h.observe()
	defer detach()

	for i, step := range scenario.Flow {
		if err := h.execute(step); err != nil {
			return nil, fmt.Errorf("flow step %d: %w", i, err)
		}
		e.Pump(ctx)
		h.collectSent()
	}

	for _, msg := range EvaluateAssertions(h, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

// observe records command transitions, channel errors, status changes and
// notices. The returned func removes every observer.
func (h *Harness) observe() func() {
	e := h.engine

	commands := notify.ObserverFunc(func(_ string, ev engine.Event) {
		if ev.Kind != engine.EventCommandChanged || ev.Command == nil {
			return
		}
		h.result.add(TraceEvent{
			Type:    EventCommand,
			Command: ev.Command.Type().String(),
			Ticket:  ev.Command.Ticket(),
			State:   ev.Command.State().String(),
		})
	})
	e.Commands().Attach(commands)

	services := notify.ObserverFunc(func(service string, ev engine.Event) {
		if ev.Kind != engine.EventTerminated {
			return
		}
		text := ""
		if len(ev.Notes) > 0 {
			text = ev.Notes[0]
		}
		h.result.add(TraceEvent{Type: EventTerminated, Path: service, Text: text})
	})
	e.Attach(services)

	statusObs := notify.ObserverFunc(func(topic string, paths []string) {
		for _, p := range paths {
			full := topic + "." + p
			v, _ := e.Status().Lookup(full)
			h.result.add(TraceEvent{Type: EventStatus, Path: full, Value: v})
		}
	})
	e.Status().Attach(statusObs)

	notices := notify.ObserverFunc(func(level string, n operator.Notice) {
		h.notices = append(h.notices, n)
		text := ""
		if len(n.Notes) > 0 {
			text = n.Notes[0]
		}
		h.result.add(TraceEvent{Type: EventNotice, Level: level, Text: text})
	})
	e.Notices().Attach(notices)

	return func() {
		e.Commands().Detach(commands)
		e.Detach(services)
		e.Status().Detach(statusObs)
		e.Notices().Detach(notices)
	}
}

func (h *Harness) execute(step FlowStep) error {
	d := h.engine.Commands()
	switch {
	case step.Send != nil:
		cmd, err := buildCommand(step.Send)
		if err != nil {
			return err
		}
		h.tracked = append(h.tracked, cmd)
		d.SendCommand(cmd)
	case step.Sequence != nil:
		batches := buildSequence(h.engine, step.Sequence)
		for _, b := range batches {
			for _, el := range b {
				if cmd, ok := el.(*command.Command); ok {
					h.tracked = append(h.tracked, cmd)
				}
			}
		}
		h.sequence = d.SendCommandSequence(batches)
	case step.Reply != nil:
		reply := testutil.Executed(step.Reply.Ticket)
		if step.Reply.Stage == "completed" {
			reply = testutil.Completed(step.Reply.Ticket)
		}
		return h.deliver(commandDSN, reply)
	case step.Status != nil:
		return h.publish(*step.Status, wire.MTEmcstatIncrementalUpdate)
	case step.Notice != nil:
		return h.deliver(errorDSN, &wire.Container{
			Type: noticeTypes[step.Notice.Level],
			Note: []string{step.Notice.Text},
		})
	case len(step.ChannelError) > 0:
		return h.deliver(commandDSN, testutil.ChannelError(step.ChannelError...))
	case step.Abort:
		d.AbortCommandSequence()
	}
	return nil
}

// collectSent traces every command frame sent since the last call.
func (h *Harness) collectSent() {
	sock := h.dialer.Socket(commandDSN)
	sent := sock.Sent()
	for ; h.sent < len(sent); h.sent++ {
		c, err := wire.Decode(sent[h.sent])
		if err != nil || c.Ticket == nil {
			continue
		}
		h.result.add(TraceEvent{Type: EventSent, Command: c.Type.String(), Ticket: *c.Ticket})
	}
}

func (h *Harness) deliver(dsn string, c *wire.Container) error {
	sock := h.dialer.Socket(dsn)
	if sock == nil {
		return fmt.Errorf("no socket for %s", dsn)
	}
	b, err := wire.Encode(c)
	if err != nil {
		return err
	}
	sock.Deliver(b)
	return nil
}

// publish sends the task and io parts of s as separate containers.
func (h *Harness) publish(s StatusStep, typ wire.ContainerType) error {
	if s.Task != nil {
		task := &wire.EmcStatusTask{}
		if s.Task.Mode != "" {
			mode, err := parseMode(s.Task.Mode)
			if err != nil {
				return err
			}
			task.TaskMode = wire.Ptr(int32(mode))
		}
		if s.Task.State != "" {
			state, err := parseState(s.Task.State)
			if err != nil {
				return err
			}
			task.TaskState = wire.Ptr(int32(state))
		}
		if err := h.deliver(statusDSN, &wire.Container{Type: typ, EmcStatusTask: task}); err != nil {
			return err
		}
	}
	if s.IO != nil {
		st := &wire.EmcStatusIO{Estop: s.IO.Estop, ToolInSpindle: s.IO.Tool}
		if err := h.deliver(statusDSN, &wire.Container{Type: typ, EmcStatusIO: st}); err != nil {
			return err
		}
	}
	return nil
}

var noticeTypes = map[string]wire.ContainerType{
	"error":   wire.MTEmcOperatorError,
	"text":    wire.MTEmcOperatorText,
	"display": wire.MTEmcOperatorDisplay,
}

func parseMode(s string) (wire.TaskMode, error) {
	switch s {
	case "manual":
		return wire.TaskModeManual, nil
	case "auto":
		return wire.TaskModeAuto, nil
	case "mdi":
		return wire.TaskModeMDI, nil
	}
	return 0, fmt.Errorf("unknown task mode %q", s)
}

func parseState(s string) (wire.TaskState, error) {
	switch s {
	case "estop":
		return wire.TaskStateEstop, nil
	case "estop_reset":
		return wire.TaskStateEstopReset, nil
	case "off":
		return wire.TaskStateOff, nil
	case "on":
		return wire.TaskStateOn, nil
	}
	return 0, fmt.Errorf("unknown task state %q", s)
}

func buildCommand(s *SendStep) (*command.Command, error) {
	switch s.Command {
	case "estop":
		return command.Estop(true), nil
	case "estop_reset":
		return command.Estop(false), nil
	case "power_on":
		return command.Power(true), nil
	case "power_off":
		return command.Power(false), nil
	case "set_mode":
		mode, err := parseMode(s.Mode)
		if err != nil {
			return nil, err
		}
		return command.SetMode(mode), nil
	case "mdi":
		return command.TaskExecute(s.GCode), nil
	case "home":
		return command.AxisHome(s.Axis), nil
	case "pause":
		return command.TaskPause(), nil
	case "resume":
		return command.TaskResume(), nil
	case "step":
		return command.TaskStep(), nil
	case "abort":
		return command.TaskAbort(), nil
	}
	return nil, fmt.Errorf("unknown command %q", s.Command)
}

func buildSequence(e *engine.Engine, s *SequenceStep) []command.Batch {
	m := e.Status()
	switch s.Name {
	case "power":
		return engine.PowerSequence(m, s.On)
	case "home_all":
		return engine.HomeAllSequence(m)
	case "mdi":
		return engine.MDISequence(m, s.Lines...)
	case "load_program":
		return engine.LoadProgramSequence(m, s.Path)
	case "run_program":
		return engine.RunProgramSequence(m, s.Line)
	}
	return nil
}
