package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/mdi_from_manual.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mdi_from_manual", s.Name)
	require.NotNil(t, s.Status.Task)
	assert.Equal(t, "manual", s.Status.Task.Mode)
	assert.Equal(t, "on", s.Status.Task.State)
	require.Len(t, s.Flow, 5)
	require.NotNil(t, s.Flow[0].Sequence)
	assert.Equal(t, []string{"G0 X1"}, s.Flow[0].Sequence.Lines)
	require.NotNil(t, s.Flow[1].Reply)
	assert.Equal(t, int32(1), s.Flow[1].Reply.Ticket)
	assert.Len(t, s.Assertions, 5)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: `
description: d
flow: [{abort: true}]
assertions: [{type: sequence_done}]`,
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: `
name: n
flow: [{abort: true}]
assertions: [{type: sequence_done}]`,
			want: "description is required",
		},
		{
			name: "empty flow",
			yaml: `
name: n
description: d
assertions: [{type: sequence_done}]`,
			want: "flow list is required",
		},
		{
			name: "empty assertions",
			yaml: `
name: n
description: d
flow: [{abort: true}]`,
			want: "assertions list is required",
		},
		{
			name: "unknown field",
			yaml: `
name: n
description: d
bogus: 1
flow: [{abort: true}]
assertions: [{type: sequence_done}]`,
			want: "failed to parse YAML",
		},
		{
			name: "two actions in one step",
			yaml: `
name: n
description: d
flow: [{abort: true, send: {command: pause}}]
assertions: [{type: sequence_done}]`,
			want: "exactly one action is required, got 2",
		},
		{
			name: "unknown command",
			yaml: `
name: n
description: d
flow: [{send: {command: fly}}]
assertions: [{type: sequence_done}]`,
			want: `unknown command "fly"`,
		},
		{
			name: "set_mode without mode",
			yaml: `
name: n
description: d
flow: [{send: {command: set_mode}}]
assertions: [{type: sequence_done}]`,
			want: "unknown task mode",
		},
		{
			name: "unknown sequence",
			yaml: `
name: n
description: d
flow: [{sequence: {name: dance}}]
assertions: [{type: sequence_done}]`,
			want: `unknown sequence "dance"`,
		},
		{
			name: "reply without ticket",
			yaml: `
name: n
description: d
flow: [{reply: {stage: completed}}]
assertions: [{type: sequence_done}]`,
			want: "ticket must be positive",
		},
		{
			name: "reply with bad stage",
			yaml: `
name: n
description: d
flow: [{reply: {ticket: 1, stage: done}}]
assertions: [{type: sequence_done}]`,
			want: "stage must be one of",
		},
		{
			name: "bad initial state",
			yaml: `
name: n
description: d
status: {task: {state: melted}}
flow: [{abort: true}]
assertions: [{type: sequence_done}]`,
			want: `unknown task state "melted"`,
		},
		{
			name: "bad notice level",
			yaml: `
name: n
description: d
flow: [{notice: {level: shout, text: x}}]
assertions: [{type: sequence_done}]`,
			want: "level must be one of",
		},
		{
			name: "unknown assertion",
			yaml: `
name: n
description: d
flow: [{abort: true}]
assertions: [{type: vibes}]`,
			want: `unknown assertion type "vibes"`,
		},
		{
			name: "sent_order without commands",
			yaml: `
name: n
description: d
flow: [{abort: true}]
assertions: [{type: sent_order}]`,
			want: "commands list is required",
		},
		{
			name: "command_state without state",
			yaml: `
name: n
description: d
flow: [{abort: true}]
assertions: [{type: command_state, ticket: 1}]`,
			want: "ticket and state are required",
		},
		{
			name: "status without path",
			yaml: `
name: n
description: d
flow: [{abort: true}]
assertions: [{type: status, value: 1}]`,
			want: "path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
