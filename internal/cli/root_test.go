package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "mksync", cmd.Use)
	assert.Contains(t, cmd.Long, "machine")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"run", "status", "watch", "home", "machine", "jog", "mdi", "program", "trace", "validate"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestProgramSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"load", "run", "pause", "resume", "step", "abort"} {
		sub, _, err := cmd.Find([]string{"program", name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
	assert.Equal(t, "mksync.yaml", configFlag.DefValue)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	timeoutFlag := cmd.PersistentFlags().Lookup("timeout")
	require.NotNil(t, timeoutFlag)
	assert.Equal(t, DefaultTimeout.String(), timeoutFlag.DefValue)
}

func TestSubcommandFlags(t *testing.T) {
	tests := []struct {
		path []string
		flag string
	}{
		{[]string{"run"}, "ack-toolchange"},
		{[]string{"watch"}, "topic"},
		{[]string{"watch"}, "duration"},
		{[]string{"status"}, "path"},
		{[]string{"home"}, "axis"},
		{[]string{"jog"}, "velocity"},
		{[]string{"jog"}, "stop"},
		{[]string{"program", "run"}, "line"},
		{[]string{"trace"}, "db"},
		{[]string{"trace"}, "ticket"},
	}
	cmd := NewRootCommand()
	for _, tt := range tests {
		sub, _, err := cmd.Find(tt.path)
		require.NoError(t, err)
		assert.NotNil(t, sub.Flags().Lookup(tt.flag), "%v --%s", tt.path, tt.flag)
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, nil, "validate", "--format", "yaml", writeMachineConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInvalidTimeout(t *testing.T) {
	_, err := execute(t, nil, "validate", "--timeout", "0s", writeMachineConfig(t, ""))
	require.Error(t, err)
}

func TestFormatFromEnvironment(t *testing.T) {
	t.Setenv("MKSYNC_FORMAT", "json")

	out, err := execute(t, nil, "validate", writeMachineConfig(t, ""))
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}
