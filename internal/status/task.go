package status

import "github.com/roach88/mksync/internal/wire"

type ProgramLine struct {
	Nr    int32 `json:"nr"`
	Total int32 `json:"total"`
}

type TaskState struct {
	Mode   int32 `json:"mode"`
	State  int32 `json:"state"`
	Paused int32 `json:"paused"`
}

// Task mirrors the task controller: program, mode and state.
type Task struct {
	Serial       int32       `json:"serial"`
	State        int32       `json:"state"`
	File         string      `json:"file"`
	InputTimeout bool        `json:"input_timeout"`
	OptionalStop bool        `json:"optional_stop"`
	Line         ProgramLine `json:"line"`
	Task         TaskState   `json:"task"`
}

func (t *Task) merge(src *wire.EmcStatusTask) []string {
	c := &changes{}
	mergeValue(c, "serial", &t.Serial, src.EchoSerialNumber)
	mergeValue(c, "state", &t.State, src.ExecState)
	mergeValue(c, "file", &t.File, src.File)
	mergeValue(c, "input_timeout", &t.InputTimeout, src.InputTimeout)
	mergeValue(c, "optional_stop", &t.OptionalStop, src.OptionalStop)
	mergeValue(c, "line.nr", &t.Line.Nr, src.ReadLine)
	mergeValue(c, "line.total", &t.Line.Total, src.TotalLines)
	mergeValue(c, "task.mode", &t.Task.Mode, src.TaskMode)
	mergeValue(c, "task.state", &t.Task.State, src.TaskState)
	mergeValue(c, "task.paused", &t.Task.Paused, src.TaskPaused)
	return c.paths
}

// Mode returns the current task mode.
func (t *Task) Mode() wire.TaskMode { return wire.TaskMode(t.Task.Mode) }

// MachineState returns the current task state (estop, on, off).
func (t *Task) MachineState() wire.TaskState { return wire.TaskState(t.Task.State) }

func (t *Task) lookup(p []string) (any, bool) {
	if len(p) == 0 {
		return *t, true
	}
	rest := p[1:]
	switch p[0] {
	case "line":
		return lookupFields(rest, t.Line, map[string]any{"nr": t.Line.Nr, "total": t.Line.Total})
	case "task":
		return lookupFields(rest, t.Task, map[string]any{
			"mode": t.Task.Mode, "state": t.Task.State, "paused": t.Task.Paused,
		})
	}
	return lookupFields(p, *t, map[string]any{
		"serial":        t.Serial,
		"state":         t.State,
		"file":          t.File,
		"input_timeout": t.InputTimeout,
		"optional_stop": t.OptionalStop,
	})
}
