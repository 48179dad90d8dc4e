package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Scenarios(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			s, err := LoadScenario(f)
			require.NoError(t, err)

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_MDIFromManualGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/mdi_from_manual.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass)
}

func TestRun_TraceSequenceNumbers(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/power_on_estop.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.NotEmpty(t, result.Trace)
	for i, ev := range result.Trace {
		assert.Equal(t, i+1, ev.Seq)
	}
	assert.Equal(t, []string{"MT_EMC_TASK_SET_STATE", "MT_EMC_TASK_SET_STATE"}, sentTypes(result.Trace))
}

func TestRun_ChannelError(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: channel_error
description: A channel error terminates the command service
flow:
  - send: {command: mdi, gcode: "G0 X1"}
  - channel_error: ["lost sync"]
assertions:
  - type: command_state
    ticket: 1
    state: sent
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	var terminated []TraceEvent
	for _, ev := range result.Trace {
		if ev.Type == EventTerminated {
			terminated = append(terminated, ev)
		}
	}
	require.Len(t, terminated, 1)
	assert.Equal(t, "command", terminated[0].Path)
	assert.Equal(t, "lost sync", terminated[0].Text)
}

func TestRun_NoReplyLeavesCommandSent(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: no_reply
description: Without a reply the command stays sent
flow:
  - send: {command: home, axis: 2}
assertions:
  - type: command_state
    ticket: 1
    state: completed
  - type: sequence_done
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "ticket 1 sent")
	assert.Contains(t, result.Errors[1], "no sequence started")
}

func TestRun_StatusStep(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: tool_change
description: Incremental io updates reach the mirror
status:
  io:
    estop: false
    tool: 0
flow:
  - status:
      io:
        tool: 7
assertions:
  - type: status
    path: io.tool.nr
    value: 7
  - type: status
    path: io.estop
    value: false
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, TraceEvent{Seq: 1, Type: EventStatus, Path: "io.tool.nr", Value: int32(7)}, result.Trace[0])
}

func TestRun_UnmirroredStatus(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: unmirrored
description: Topics without a full update cannot be asserted
flow:
  - abort: true
assertions:
  - type: status
    path: motion.position.x
    value: 0
`))
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "path not mirrored")
}
