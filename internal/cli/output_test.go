package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"machine": "mill"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeTimeout, "timed out waiting for the machine", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E004", resp.Error.Code)
	assert.Equal(t, "timed out waiting for the machine", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("machine ready")
	require.NoError(t, err)
	assert.Equal(t, "machine ready\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeRejected, "machine rejected the request", "axis not homed")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E007]: machine rejected the request")
	assert.NotContains(t, buf.String(), "axis not homed")

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error(ErrCodeRejected, "machine rejected the request", "axis not homed"))
	assert.Contains(t, buf.String(), "Details: axis not homed")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "json",
		Writer:    out,
		ErrWriter: errOut,
	}

	formatter.VerboseLog("connecting to %s", "mill")
	assert.Empty(t, errOut.String())

	formatter.Verbose = true
	formatter.VerboseLog("connecting to %s", "mill")
	assert.Equal(t, "connecting to mill\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestOutputFormatter_Report(t *testing.T) {
	t.Run("exit error keeps its code", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "json", Writer: buf}

		in := Failure(ExitFailure, ErrCodeNotReady, "machine status not received", errors.New("deadline"))
		err := f.Report(in)
		assert.Same(t, in, err)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
		assert.Equal(t, "E006", resp.Error.Code)
		assert.Equal(t, "deadline", resp.Error.Details)
	})

	t.Run("plain error is wrapped", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "text", Writer: buf}

		err := f.Report(errors.New("boom"))
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, buf.String(), "Error [E001]: boom")
	})

	t.Run("nil", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "text", Writer: buf}
		assert.NoError(t, f.Report(nil))
		assert.Empty(t, buf.String())
	})
}

func TestOutputFormatter_Table(t *testing.T) {
	rows := []table.Row{{"Mode", "MANUAL"}, {"Tool", 3}}

	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}
	require.NoError(t, f.Table(nil, table.Row{"Field", "Value"}, rows))
	assert.Contains(t, buf.String(), "FIELD")
	assert.Contains(t, buf.String(), "MANUAL")

	buf.Reset()
	f.Format = "json"
	require.NoError(t, f.Table(map[string]int{"tool": 3}, table.Row{"Field", "Value"}, rows))
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, map[string]any{"tool": float64(3)}, resp.Data)
}

func TestOutputFormatter_Line(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, f.Line(WatchEvent{Kind: "status", Path: "io.estop"}, "ignored"))
	require.NoError(t, f.Line(WatchEvent{Kind: "notice"}, "ignored"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var ev WatchEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &ev))
	assert.Equal(t, "io.estop", ev.Path)

	buf.Reset()
	f.Format = "text"
	require.NoError(t, f.Line(nil, "status  %s = %v", "io.estop", true))
	assert.Equal(t, "status  io.estop = true\n", buf.String())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("x")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	wrapped := WrapExitError(ExitFailure, "outer", errors.New("inner"))
	assert.EqualError(t, wrapped, "outer: inner")
}
