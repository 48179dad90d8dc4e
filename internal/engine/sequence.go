package engine

import (
	"slices"

	"github.com/roach88/mksync/internal/command"
)

// Sequence is an ordered plan of batches driven by a Dispatcher.
//
// Commands of one batch are sent together. The next batch is sent on a
// later tick, once every command of the current batch is Completed and the
// installed wait condition, if any, holds. Completion order within a batch
// does not matter.
//
// Thread-safety: owned by the pump goroutine, like its Dispatcher.
type Sequence struct {
	dispatcher *Dispatcher
	batches    []command.Batch
	pending    []*command.Command
	wait       *command.WaitUntil
}

func newSequence(d *Dispatcher, batches []command.Batch) *Sequence {
	return &Sequence{dispatcher: d, batches: slices.Clone(batches)}
}

func (s *Sequence) start() {
	s.sendBatch()
}

// sendBatch pops the next batch. Waits and pending commands are recorded
// before anything is sent, so a command completing inside SendCommand
// cannot make the sequence look finished halfway through the batch.
func (s *Sequence) sendBatch() {
	if len(s.batches) == 0 {
		return
	}
	batch := s.batches[0]
	s.batches[0] = nil
	s.batches = s.batches[1:]

	var send []*command.Command
	for _, e := range batch {
		switch e := e.(type) {
		case *command.WaitUntil:
			if s.wait != nil {
				s.dispatcher.logger.Warn("batch has more than one wait condition, keeping the last",
					"dropped", s.wait.String(), "kept", e.String())
			}
			s.wait = e
		case *command.Command:
			s.pending = append(s.pending, e)
			send = append(send, e)
		}
	}
	for _, cmd := range send {
		// A failed send earlier in the batch aborts the sequence.
		if cmd.State() != command.StateCreated {
			continue
		}
		s.dispatcher.SendCommand(cmd)
	}
}

// IsActive reports whether the sequence still has work: batches left,
// commands of the current batch not Completed, or an unsatisfied wait.
func (s *Sequence) IsActive() bool {
	return len(s.batches) > 0 || len(s.pending) > 0 || s.wait != nil
}

// Remaining returns the number of batches not yet sent.
func (s *Sequence) Remaining() int { return len(s.batches) }

// Pending returns the commands of the current batch not yet Completed.
func (s *Sequence) Pending() []*command.Command { return slices.Clone(s.pending) }

func (s *Sequence) waitsOn(cmd *command.Command) bool {
	return slices.Contains(s.pending, cmd)
}

func (s *Sequence) onCommandCompleted(cmd *command.Command) {
	if i := slices.Index(s.pending, cmd); i >= 0 {
		s.pending = slices.Delete(s.pending, i, i+1)
	}
}

func (s *Sequence) tick() {
	if len(s.pending) > 0 {
		return
	}
	if s.wait != nil && !s.wait.Satisfied() {
		return
	}
	s.wait = nil
	s.sendBatch()
}

// abort discards everything not yet sent. Commands that never left the
// process become Obsolete; in-flight commands are left to finish.
func (s *Sequence) abort() {
	for _, cmd := range s.pending {
		if cmd.State() == command.StateCreated {
			cmd.MarkObsolete()
		}
	}
	for _, b := range s.batches {
		for _, e := range b {
			if cmd, ok := e.(*command.Command); ok && cmd.State() == command.StateCreated {
				cmd.MarkObsolete()
			}
		}
	}
	s.batches = nil
	s.pending = nil
	s.wait = nil
}
