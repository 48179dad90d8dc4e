package engine

import (
	"github.com/roach88/mksync/internal/command"
	"github.com/roach88/mksync/internal/status"
	"github.com/roach88/mksync/internal/wire"
)

// taskMode returns the commands needed to reach mode: none when the mirror
// already reports it, a SetMode otherwise. An unknown mode counts as
// different.
func taskMode(m *status.Mirror, mode wire.TaskMode, force bool) []*command.Command {
	if !force {
		if t := m.Task(); t != nil && t.Mode() == mode {
			return nil
		}
	}
	return []*command.Command{command.SetMode(mode)}
}

// TaskModeAuto returns the commands switching to AUTO mode.
func TaskModeAuto(m *status.Mirror, force bool) []*command.Command {
	return taskMode(m, wire.TaskModeAuto, force)
}

// TaskModeMDI returns the commands switching to MDI mode.
func TaskModeMDI(m *status.Mirror, force bool) []*command.Command {
	return taskMode(m, wire.TaskModeMDI, force)
}

// TaskModeManual returns the commands switching to MANUAL mode.
func TaskModeManual(m *status.Mirror, force bool) []*command.Command {
	return taskMode(m, wire.TaskModeManual, force)
}

// Elements widens commands to sequence elements.
func Elements(cmds ...*command.Command) []command.Element {
	out := make([]command.Element, len(cmds))
	for i, c := range cmds {
		out[i] = c
	}
	return out
}

// singles puts each command into its own batch.
func singles(cmds []*command.Command) []command.Batch {
	out := make([]command.Batch, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, command.Batch{c})
	}
	return out
}

// HomeAllSequence switches to MANUAL, homes every configured axis in one
// batch and then waits until motion reports all axes homed.
func HomeAllSequence(m *status.Mirror) []command.Batch {
	seq := singles(TaskModeManual(m, false))

	var homes command.Batch
	if cfg := m.Config(); cfg != nil {
		for _, a := range cfg.Axis {
			homes = append(homes, command.AxisHome(a.Index))
		}
	}
	if len(homes) == 0 {
		return seq
	}
	return append(seq, homes, command.Batch{command.Wait("all axes homed", func() bool {
		mo := m.Motion()
		return mo != nil && mo.AllHomed()
	})})
}

// PowerSequence turns the machine on or off. Turning on first releases the
// estop when the mirror reports it engaged.
func PowerSequence(m *status.Mirror, on bool) []command.Batch {
	var seq []command.Batch
	if on {
		if io := m.IO(); io == nil || io.Estop {
			seq = append(seq, command.Batch{command.Estop(false)})
		}
	}
	return append(seq, command.Batch{command.Power(on)})
}

// LoadProgramSequence switches to AUTO, resets the interpreter and opens
// path on the execute interpreter.
func LoadProgramSequence(m *status.Mirror, path string) []command.Batch {
	seq := singles(TaskModeAuto(m, false))
	return append(seq,
		command.Batch{command.TaskReset(false)},
		command.Batch{command.OpenFile(path, false)},
	)
}

// RunProgramSequence clears the spindle with M6 T0, waits until no tool is
// loaded, forces AUTO mode and runs the loaded program from line.
func RunProgramSequence(m *status.Mirror, line int32) []command.Batch {
	seq := singles(TaskModeMDI(m, false))
	seq = append(seq,
		command.Batch{command.TaskExecute("M6 T0")},
		command.Batch{command.Wait("spindle empty", func() bool {
			io := m.IO()
			return io != nil && io.Tool.Nr <= 0
		})},
	)
	seq = append(seq, singles(TaskModeAuto(m, true))...)
	return append(seq, command.Batch{command.TaskRun(false, line)})
}

// MDISequence switches to MDI and executes each line in turn.
func MDISequence(m *status.Mirror, lines ...string) []command.Batch {
	seq := singles(TaskModeMDI(m, false))
	for _, l := range lines {
		seq = append(seq, command.Batch{command.TaskExecute(l)})
	}
	return seq
}

// JogSequence switches to MANUAL and issues the jog commands together.
func JogSequence(m *status.Mirror, jogs ...*command.Command) []command.Batch {
	seq := singles(TaskModeManual(m, false))
	if len(jogs) == 0 {
		return seq
	}
	b := make(command.Batch, 0, len(jogs))
	for _, j := range jogs {
		b = append(b, j)
	}
	return append(seq, b)
}
