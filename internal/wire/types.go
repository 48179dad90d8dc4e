package wire

import "fmt"

// ContainerType identifies the kind of a Container.
type ContainerType int32

const (
	MTPing  ContainerType = 1
	MTError ContainerType = 2

	MTEmccmdExecuted  ContainerType = 10
	MTEmccmdCompleted ContainerType = 11

	MTEmcstatFullUpdate        ContainerType = 20
	MTEmcstatIncrementalUpdate ContainerType = 21

	MTEmcOperatorError   ContainerType = 30
	MTEmcOperatorText    ContainerType = 31
	MTEmcOperatorDisplay ContainerType = 32
	MTEmcNmlError        ContainerType = 33
	MTEmcNmlText         ContainerType = 34
	MTEmcNmlDisplay      ContainerType = 35

	MTHalrcompFullUpdate        ContainerType = 40
	MTHalrcompIncrementalUpdate ContainerType = 41
	MTHalrcompError             ContainerType = 42
	MTHalrcompSet               ContainerType = 43

	MTEmcTaskSetState      ContainerType = 100
	MTEmcTaskSetMode       ContainerType = 101
	MTEmcTaskPlanOpen      ContainerType = 102
	MTEmcTaskPlanRun       ContainerType = 103
	MTEmcTaskPlanStep      ContainerType = 104
	MTEmcTaskPlanPause     ContainerType = 105
	MTEmcTaskPlanResume    ContainerType = 106
	MTEmcTaskPlanInit      ContainerType = 107
	MTEmcTaskPlanExecute   ContainerType = 108
	MTEmcTaskAbort         ContainerType = 109
	MTEmcAxisHome          ContainerType = 110
	MTEmcAxisUnhome        ContainerType = 111
	MTEmcAxisAbort         ContainerType = 112
	MTEmcAxisJog           ContainerType = 113
	MTEmcAxisIncrJog       ContainerType = 114
	MTEmcTrajSetScale      ContainerType = 115
	MTEmcTrajSetRapidScale ContainerType = 116
)

var containerTypeNames = map[ContainerType]string{
	MTPing:                      "MT_PING",
	MTError:                     "MT_ERROR",
	MTEmccmdExecuted:            "MT_EMCCMD_EXECUTED",
	MTEmccmdCompleted:           "MT_EMCCMD_COMPLETED",
	MTEmcstatFullUpdate:         "MT_EMCSTAT_FULL_UPDATE",
	MTEmcstatIncrementalUpdate:  "MT_EMCSTAT_INCREMENTAL_UPDATE",
	MTEmcOperatorError:          "MT_EMC_OPERATOR_ERROR",
	MTEmcOperatorText:           "MT_EMC_OPERATOR_TEXT",
	MTEmcOperatorDisplay:        "MT_EMC_OPERATOR_DISPLAY",
	MTEmcNmlError:               "MT_EMC_NML_ERROR",
	MTEmcNmlText:                "MT_EMC_NML_TEXT",
	MTEmcNmlDisplay:             "MT_EMC_NML_DISPLAY",
	MTHalrcompFullUpdate:        "MT_HALRCOMP_FULL_UPDATE",
	MTHalrcompIncrementalUpdate: "MT_HALRCOMP_INCREMENTAL_UPDATE",
	MTHalrcompError:             "MT_HALRCOMP_ERROR",
	MTHalrcompSet:               "MT_HALRCOMP_SET",
	MTEmcTaskSetState:           "MT_EMC_TASK_SET_STATE",
	MTEmcTaskSetMode:            "MT_EMC_TASK_SET_MODE",
	MTEmcTaskPlanOpen:           "MT_EMC_TASK_PLAN_OPEN",
	MTEmcTaskPlanRun:            "MT_EMC_TASK_PLAN_RUN",
	MTEmcTaskPlanStep:           "MT_EMC_TASK_PLAN_STEP",
	MTEmcTaskPlanPause:          "MT_EMC_TASK_PLAN_PAUSE",
	MTEmcTaskPlanResume:         "MT_EMC_TASK_PLAN_RESUME",
	MTEmcTaskPlanInit:           "MT_EMC_TASK_PLAN_INIT",
	MTEmcTaskPlanExecute:        "MT_EMC_TASK_PLAN_EXECUTE",
	MTEmcTaskAbort:              "MT_EMC_TASK_ABORT",
	MTEmcAxisHome:               "MT_EMC_AXIS_HOME",
	MTEmcAxisUnhome:             "MT_EMC_AXIS_UNHOME",
	MTEmcAxisAbort:              "MT_EMC_AXIS_ABORT",
	MTEmcAxisJog:                "MT_EMC_AXIS_JOG",
	MTEmcAxisIncrJog:            "MT_EMC_AXIS_INCR_JOG",
	MTEmcTrajSetScale:           "MT_EMC_TRAJ_SET_SCALE",
	MTEmcTrajSetRapidScale:      "MT_EMC_TRAJ_SET_RAPID_SCALE",
}

func (t ContainerType) String() string {
	if name, ok := containerTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MT_UNKNOWN(%d)", int32(t))
}

// TaskMode mirrors the controller's task mode enumeration.
type TaskMode int32

const (
	TaskModeManual TaskMode = 1
	TaskModeAuto   TaskMode = 2
	TaskModeMDI    TaskMode = 3
)

func (m TaskMode) String() string {
	switch m {
	case TaskModeManual:
		return "manual"
	case TaskModeAuto:
		return "auto"
	case TaskModeMDI:
		return "mdi"
	}
	return fmt.Sprintf("mode(%d)", int32(m))
}

// TaskState mirrors the controller's task state enumeration.
type TaskState int32

const (
	TaskStateEstop      TaskState = 1
	TaskStateEstopReset TaskState = 2
	TaskStateOff        TaskState = 3
	TaskStateOn         TaskState = 4
)

func (s TaskState) String() string {
	switch s {
	case TaskStateEstop:
		return "estop"
	case TaskStateEstopReset:
		return "estop-reset"
	case TaskStateOff:
		return "off"
	case TaskStateOn:
		return "on"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// InterpState mirrors the interpreter state enumeration.
type InterpState int32

const (
	InterpIdle    InterpState = 1
	InterpReading InterpState = 2
	InterpPaused  InterpState = 3
	InterpWaiting InterpState = 4
)

func (s InterpState) String() string {
	switch s {
	case InterpIdle:
		return "idle"
	case InterpReading:
		return "reading"
	case InterpPaused:
		return "paused"
	case InterpWaiting:
		return "waiting"
	}
	return fmt.Sprintf("interp(%d)", int32(s))
}

// HalType is the value type of a HAL pin.
type HalType int32

const (
	HalBit   HalType = 1
	HalFloat HalType = 2
	HalS32   HalType = 3
	HalU32   HalType = 4
)

// StatusTopic names a status broadcast sub-topic.
type StatusTopic string

const (
	TopicConfig StatusTopic = "config"
	TopicMotion StatusTopic = "motion"
	TopicIO     StatusTopic = "io"
	TopicTask   StatusTopic = "task"
	TopicInterp StatusTopic = "interp"
)

// StatusTopics lists every status sub-topic in subscription order.
var StatusTopics = []StatusTopic{TopicConfig, TopicMotion, TopicIO, TopicTask, TopicInterp}

// Ptr returns a pointer to v. It is the usual way to fill optional fields.
func Ptr[T any](v T) *T {
	return &v
}
