package command

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/mksync/internal/wire"
)

func build(typ wire.ContainerType, params *wire.EmcCommandParams) *wire.Container {
	return &wire.Container{Type: typ, EmcCommandParams: params}
}

func interp(preview bool) Channel {
	if preview {
		return ChannelPreview
	}
	return ChannelExecute
}

func setState(state wire.TaskState) *Command {
	params := &wire.EmcCommandParams{TaskState: wire.Ptr(int32(state))}
	return New(build(wire.MTEmcTaskSetState, params), ChannelExecute, true)
}

// Estop engages (on) or releases the emergency stop.
func Estop(on bool) *Command {
	if on {
		return setState(wire.TaskStateEstop)
	}
	return setState(wire.TaskStateEstopReset)
}

// Power switches machine power.
func Power(on bool) *Command {
	if on {
		return setState(wire.TaskStateOn)
	}
	return setState(wire.TaskStateOff)
}

// OpenFile loads a program file into the selected interpreter.
func OpenFile(path string, preview bool) *Command {
	params := &wire.EmcCommandParams{Path: wire.Ptr(path)}
	return New(build(wire.MTEmcTaskPlanOpen, params), interp(preview), true)
}

// TaskRun starts the opened program at line. The preview interpreter never
// answers a run request, so in preview mode the command is fire-and-forget.
func TaskRun(preview bool, line int32) *Command {
	params := &wire.EmcCommandParams{LineNumber: wire.Ptr(line)}
	return New(build(wire.MTEmcTaskPlanRun, params), interp(preview), !preview)
}

func TaskStep() *Command {
	return New(build(wire.MTEmcTaskPlanStep, nil), ChannelExecute, true)
}

func TaskPause() *Command {
	return New(build(wire.MTEmcTaskPlanPause, nil), ChannelExecute, true)
}

func TaskResume() *Command {
	return New(build(wire.MTEmcTaskPlanResume, nil), ChannelExecute, true)
}

// TaskReset re-initialises the selected interpreter.
func TaskReset(preview bool) *Command {
	return New(build(wire.MTEmcTaskPlanInit, nil), interp(preview), true)
}

// AxisHome homes one axis. Homing is not addressed to an interpreter.
func AxisHome(index int32) *Command {
	params := &wire.EmcCommandParams{Index: wire.Ptr(index)}
	return New(build(wire.MTEmcAxisHome, params), ChannelNone, true)
}

func AxisUnhome(index int32) *Command {
	params := &wire.EmcCommandParams{Index: wire.Ptr(index)}
	return New(build(wire.MTEmcAxisUnhome, params), ChannelNone, true)
}

// TaskExecute runs one line of MDI. The text is NFC-normalised and trimmed
// so visually identical input always produces the same bytes on the wire.
func TaskExecute(gcode string) *Command {
	text := strings.TrimSpace(norm.NFC.String(gcode))
	params := &wire.EmcCommandParams{Command: wire.Ptr(text)}
	return New(build(wire.MTEmcTaskPlanExecute, params), ChannelExecute, true)
}

// SetMode switches the task mode. Auto mode is required before the execute
// interpreter takes control.
func SetMode(mode wire.TaskMode) *Command {
	params := &wire.EmcCommandParams{TaskMode: wire.Ptr(int32(mode))}
	return New(build(wire.MTEmcTaskSetMode, params), ChannelExecute, true)
}

func TaskAbort() *Command {
	return New(build(wire.MTEmcTaskAbort, nil), ChannelExecute, true)
}

// AxisAbort stops a continuous jog of one axis.
func AxisAbort(index int32) *Command {
	params := &wire.EmcCommandParams{Index: wire.Ptr(index)}
	return New(build(wire.MTEmcAxisAbort, params), ChannelExecute, true)
}

// AxisJog starts a continuous jog that runs until another jog or AxisAbort.
func AxisJog(index int32, velocity float64) *Command {
	params := &wire.EmcCommandParams{Index: wire.Ptr(index), Velocity: wire.Ptr(velocity)}
	return New(build(wire.MTEmcAxisJog, params), ChannelExecute, true)
}

// AxisIncrJog moves one axis by distance. The controller silently ignores a
// distance jog that would exceed the axis limits.
func AxisIncrJog(index int32, velocity, distance float64) *Command {
	params := &wire.EmcCommandParams{
		Index:    wire.Ptr(index),
		Velocity: wire.Ptr(velocity),
		Distance: wire.Ptr(distance),
	}
	return New(build(wire.MTEmcAxisIncrJog, params), ChannelExecute, true)
}

// SetFeedScale overrides the feed rate as a multiplier of the configured speed.
func SetFeedScale(scale float64) *Command {
	params := &wire.EmcCommandParams{Scale: wire.Ptr(scale)}
	return New(build(wire.MTEmcTrajSetScale, params), ChannelNone, true)
}

// SetRapidScale overrides the rapid speed as a multiplier.
func SetRapidScale(scale float64) *Command {
	params := &wire.EmcCommandParams{Scale: wire.Ptr(scale)}
	return New(build(wire.MTEmcTrajSetRapidScale, params), ChannelNone, true)
}

// HalSetBit sets a bit pin of a remote HAL component. The halrcmd channel
// does not acknowledge pin writes.
func HalSetBit(handle int32, value bool) *Command {
	c := &wire.Container{
		Type: wire.MTHalrcompSet,
		Pin: []*wire.Pin{{
			Handle: wire.Ptr(handle),
			Type:   wire.Ptr(int32(wire.HalBit)),
			Halbit: wire.Ptr(value),
		}},
	}
	return New(c, ChannelNone, false)
}
