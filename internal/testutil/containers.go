package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/mksync/internal/wire"
)

// Encode serializes c or fails the test.
func Encode(t testing.TB, c *wire.Container) []byte {
	t.Helper()
	b, err := wire.Encode(c)
	require.NoError(t, err)
	return b
}

// Decode parses b or fails the test.
func Decode(t testing.TB, b []byte) *wire.Container {
	t.Helper()
	c, err := wire.Decode(b)
	require.NoError(t, err)
	return c
}

func Ping() *wire.Container {
	return &wire.Container{Type: wire.MTPing}
}

func Executed(ticket int32) *wire.Container {
	return &wire.Container{Type: wire.MTEmccmdExecuted, ReplyTicket: wire.Ptr(ticket)}
}

func Completed(ticket int32) *wire.Container {
	return &wire.Container{Type: wire.MTEmccmdCompleted, ReplyTicket: wire.Ptr(ticket)}
}

func ChannelError(notes ...string) *wire.Container {
	return &wire.Container{Type: wire.MTError, Note: notes}
}

// FullTask is a minimal full update of the task topic.
func FullTask(mode wire.TaskMode, state wire.TaskState) *wire.Container {
	return &wire.Container{
		Type: wire.MTEmcstatFullUpdate,
		EmcStatusTask: &wire.EmcStatusTask{
			TaskMode:  wire.Ptr(int32(mode)),
			TaskState: wire.Ptr(int32(state)),
		},
	}
}

// IncrementalTask changes only the task mode.
func IncrementalTask(mode wire.TaskMode) *wire.Container {
	return &wire.Container{
		Type:          wire.MTEmcstatIncrementalUpdate,
		EmcStatusTask: &wire.EmcStatusTask{TaskMode: wire.Ptr(int32(mode))},
	}
}

// SentContainers decodes every payload sent on s.
func SentContainers(t testing.TB, s *FakeSocket) []*wire.Container {
	t.Helper()
	var out []*wire.Container
	for _, b := range s.Sent() {
		out = append(out, Decode(t, b))
	}
	return out
}
