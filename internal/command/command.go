// Package command defines the single Command value type submitted to the
// controller and the wait conditions that can be mixed into sequences.
//
// A Command moves through Created -> Sent -> Executed -> Completed. Each
// transition is one-way and idempotent. Obsolete is an orthogonal terminal
// state reachable from any state that is not already terminal.
//
// Lifecycle state and ticket are stored atomically so a caller may inspect a
// submitted command from another goroutine. Only the dispatcher mutates them.
package command

import (
	"fmt"
	"sync/atomic"

	"github.com/roach88/mksync/internal/wire"
)

// State is a command's position in its lifecycle.
type State int32

const (
	StateCreated State = iota
	StateSent
	StateExecuted
	StateCompleted
	StateObsolete
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSent:
		return "sent"
	case StateExecuted:
		return "executed"
	case StateCompleted:
		return "completed"
	case StateObsolete:
		return "obsolete"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateObsolete
}

// Channel selects the interpreter a command is addressed to.
type Channel int

const (
	ChannelNone Channel = iota
	ChannelExecute
	ChannelPreview
)

// InterpName is the name carried on the wire, empty for ChannelNone.
func (c Channel) InterpName() string {
	switch c {
	case ChannelExecute:
		return "execute"
	case ChannelPreview:
		return "preview"
	}
	return ""
}

// Command is one request to the controller.
type Command struct {
	payload      *wire.Container
	channel      Channel
	expectsReply bool

	ticket atomic.Int32
	state  atomic.Int32
}

// New wraps a payload. The payload's Ticket and InterpName are filled in at
// serialization time.
func New(payload *wire.Container, channel Channel, expectsReply bool) *Command {
	return &Command{
		payload:      payload,
		channel:      channel,
		expectsReply: expectsReply,
	}
}

func (c *Command) Type() wire.ContainerType { return c.payload.Type }
func (c *Command) Channel() Channel         { return c.channel }
func (c *Command) ExpectsReply() bool       { return c.expectsReply }
func (c *Command) Ticket() int32            { return c.ticket.Load() }
func (c *Command) State() State             { return State(c.state.Load()) }

// Params returns the command parameters, nil when the kind takes none.
func (c *Command) Params() *wire.EmcCommandParams { return c.payload.EmcCommandParams }

// Stamp records the ticket assigned at send time.
func (c *Command) Stamp(ticket int32) {
	c.ticket.Store(ticket)
}

// IsExecuted reports whether the controller has at least executed the command.
func (c *Command) IsExecuted() bool {
	s := c.State()
	return s == StateExecuted || s == StateCompleted
}

func (c *Command) IsCompleted() bool { return c.State() == StateCompleted }
func (c *Command) IsObsolete() bool  { return c.State() == StateObsolete }

// MarkSent moves Created -> Sent.
func (c *Command) MarkSent() bool {
	return c.transition(StateSent, StateCreated)
}

// MarkExecuted moves Sent -> Executed.
func (c *Command) MarkExecuted() bool {
	return c.transition(StateExecuted, StateSent)
}

// MarkCompleted moves Sent or Executed -> Completed.
func (c *Command) MarkCompleted() bool {
	return c.transition(StateCompleted, StateSent, StateExecuted)
}

// MarkObsolete forces any non-terminal command to Obsolete.
func (c *Command) MarkObsolete() bool {
	return c.transition(StateObsolete, StateCreated, StateSent, StateExecuted)
}

func (c *Command) transition(to State, from ...State) bool {
	for {
		cur := State(c.state.Load())
		allowed := false
		for _, f := range from {
			if cur == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
		if c.state.CompareAndSwap(int32(cur), int32(to)) {
			return true
		}
	}
}

// Serialize encodes the payload with the assigned ticket and interpreter name.
func (c *Command) Serialize() ([]byte, error) {
	out := *c.payload
	out.Ticket = wire.Ptr(c.Ticket())
	if name := c.channel.InterpName(); name != "" {
		out.InterpName = wire.Ptr(name)
	}
	b, err := wire.Encode(&out)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", c, err)
	}
	return b, nil
}

func (c *Command) String() string {
	p := c.payload.EmcCommandParams
	if p != nil && p.Index != nil {
		return fmt.Sprintf("%s[%d]#%d", c.payload.Type, *p.Index, c.Ticket())
	}
	return fmt.Sprintf("%s#%d", c.payload.Type, c.Ticket())
}
