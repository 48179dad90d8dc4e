package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/mksync/internal/command"
	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/operator"
	"github.com/roach88/mksync/internal/status"
	"github.com/roach88/mksync/internal/transport"
	"github.com/roach88/mksync/internal/wire"
)

// Plan builds the batches to send once the status mirror holds the topics
// a command needs.
type Plan func(m *status.Mirror) ([]command.Batch, error)

// CommandResult is the final state of one sent command.
type CommandResult struct {
	Ticket  int32  `json:"ticket"`
	Command string `json:"command"`
	State   string `json:"state"`
}

// Outcome summarises a finished plan.
type Outcome struct {
	Commands []CommandResult   `json:"commands"`
	Notices  []operator.Notice `json:"notices,omitempty"`
}

// planStep sends a plan once the mirror is ready and finishes when the
// resulting sequence has run to the end.
//
// Phases: waiting for status, running, done. Error notices and a fatal
// command channel error fail the plan.
type planStep struct {
	topics []wire.StatusTopic
	plan   Plan

	started bool
	seq     *engine.Sequence
	cmds    []*command.Command
	notices []operator.Notice
	fatal   error

	noticeObs operator.Observer
	eventObs  engine.Observer
}

func newPlanStep(topics []wire.StatusTopic, plan Plan) *planStep {
	p := &planStep{topics: topics, plan: plan}
	p.noticeObs = notify.ObserverFunc(func(_ string, n operator.Notice) {
		if p.started {
			p.notices = append(p.notices, n)
		}
	})
	p.eventObs = notify.ObserverFunc(func(_ string, ev engine.Event) {
		if ev.Kind == engine.EventTerminated && p.fatal == nil {
			p.fatal = ev.Err
		}
	})
	return p
}

func (p *planStep) attach(e *engine.Engine) {
	e.Notices().Attach(p.noticeObs, wire.NoticeError)
	e.Attach(p.eventObs, transport.ServiceCommand)
}

func (p *planStep) detach(e *engine.Engine) {
	e.Notices().Detach(p.noticeObs)
	e.Detach(p.eventObs)
}

func (p *planStep) step(e *engine.Engine) (bool, error) {
	if p.fatal != nil {
		return false, p.fatal
	}
	if !p.started {
		if e.Commands().Service() == nil || !e.Status().IsValid(p.topics...) {
			return false, nil
		}
		batches, err := p.plan(e.Status())
		if err != nil {
			return false, err
		}
		p.started = true
		p.cmds = commandsOf(batches)
		if len(batches) == 0 {
			return true, nil
		}
		p.seq = e.Commands().SendCommandSequence(batches)
	}

	for _, cmd := range p.cmds {
		if cmd.IsObsolete() {
			return false, fmt.Errorf("%s was not delivered", cmd)
		}
	}
	if len(p.notices) > 0 {
		return false, errRejected
	}
	return !p.seq.IsActive(), nil
}

func (p *planStep) outcome() Outcome {
	out := Outcome{Commands: []CommandResult{}, Notices: p.notices}
	for _, cmd := range p.cmds {
		out.Commands = append(out.Commands, CommandResult{
			Ticket:  cmd.Ticket(),
			Command: cmd.Type().String(),
			State:   cmd.State().String(),
		})
	}
	return out
}

var errRejected = errors.New("machine reported an error")

func commandsOf(batches []command.Batch) []*command.Command {
	var out []*command.Command
	for _, b := range batches {
		for _, e := range b {
			if cmd, ok := e.(*command.Command); ok {
				out = append(out, cmd)
			}
		}
	}
	return out
}

// runPlan opens a session, runs plan to completion within the configured
// timeout and prints the outcome.
func runPlan(cmd *cobra.Command, opts *RootOptions, topics []wire.StatusTopic, plan Plan) error {
	f := formatter(opts, cmd)

	s, err := OpenSession(cmd.Context(), opts, SessionOptions{}, cmd.ErrOrStderr())
	if err != nil {
		return f.Report(err)
	}
	defer s.Close()

	ctx, cancel := signalContext(cmd.Context(), s.Logger())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, opts.Timeout)
	defer cancelTimeout()

	p := newPlanStep(topics, plan)
	p.attach(s.Engine())
	err = s.Run(ctx, p.step)
	p.detach(s.Engine())

	if err != nil {
		return f.Report(planFailure(p, err))
	}
	out := p.outcome()
	if len(out.Commands) == 0 {
		return f.Line(out, "nothing to do")
	}
	return f.Table(out, table.Row{"Ticket", "Command", "State"}, resultRows(out.Commands))
}

func planFailure(p *planStep, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) && !p.started:
		return Failure(ExitFailure, ErrCodeNotReady, "machine status not received", err)
	case errors.Is(err, context.DeadlineExceeded):
		return Failure(ExitFailure, ErrCodeTimeout, "timed out waiting for the machine", err)
	case isShutdown(err):
		return Failure(ExitFailure, ErrCodeGeneric, "interrupted", err)
	case errors.Is(err, errRejected):
		var notes []string
		for _, n := range p.notices {
			notes = append(notes, n.Notes...)
		}
		return Failure(ExitFailure, ErrCodeRejected, "machine rejected the request", errors.New(strings.Join(notes, "; ")))
	}
	return Failure(ExitFailure, ErrCodeRejected, "request failed", err)
}

func resultRows(results []CommandResult) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, table.Row{r.Ticket, r.Command, r.State})
	}
	return rows
}
