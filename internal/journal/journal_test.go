package journal

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mksync/internal/command"
	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/operator"
	"github.com/roach88/mksync/internal/testutil"
	"github.com/roach88/mksync/internal/transport"
	"github.com/roach88/mksync/internal/wire"
)

// createTestJournal opens a journal in a temp dir with fixed session ids.
func createTestJournal(t *testing.T, ids ...string) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path, WithSessionIDs(NewFixedGenerator(ids...)))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j, path
}

// sentCommand returns a command stamped and moved to Sent.
func sentCommand(ticket int32) *command.Command {
	cmd := command.AxisHome(0)
	cmd.Stamp(ticket)
	cmd.MarkSent()
	return cmd
}

func TestOpen_Pragmas(t *testing.T) {
	j, _ := createTestJournal(t)

	assert.NoError(t, j.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, j.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, j.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	for range 2 {
		j, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, j.Close())
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "journal.db"))
	assert.Error(t, err)
}

func TestStartSession(t *testing.T) {
	j, _ := createTestJournal(t, "session-1", "session-2")
	ctx := context.Background()

	s1, err := j.StartSession(ctx, "mill")
	require.NoError(t, err)
	s2, err := j.StartSession(ctx, "lathe")
	require.NoError(t, err)

	assert.Equal(t, "session-1", s1.ID)
	assert.Less(t, s1.Seq, s2.Seq)

	sessions, err := j.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "mill", sessions[0].Machine)
	assert.Equal(t, "lathe", sessions[1].Machine)

	latest, ok, err := j.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "session-2", latest.ID)
}

func TestStartSession_DuplicateID(t *testing.T) {
	j, _ := createTestJournal(t, "same", "same")
	ctx := context.Background()

	_, err := j.StartSession(ctx, "mill")
	require.NoError(t, err)
	_, err = j.StartSession(ctx, "mill")
	assert.Error(t, err)
}

func TestSessions_Empty(t *testing.T) {
	j, _ := createTestJournal(t)

	sessions, err := j.Sessions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)

	_, ok, err := j.Latest(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordCommand_Upsert(t *testing.T) {
	j, _ := createTestJournal(t, "s")
	ctx := context.Background()
	s, err := j.StartSession(ctx, "mill")
	require.NoError(t, err)

	cmd := sentCommand(7)
	require.NoError(t, j.RecordCommand(ctx, s.ID, "command", cmd))
	cmd.MarkExecuted()
	require.NoError(t, j.RecordCommand(ctx, s.ID, "command", cmd))
	cmd.MarkCompleted()
	require.NoError(t, j.RecordCommand(ctx, s.ID, "command", cmd))

	cmds, err := j.Commands(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, int32(7), cmds[0].Ticket)
	assert.Equal(t, "completed", cmds[0].State)
	assert.Equal(t, wire.MTEmcAxisHome.String(), cmds[0].Type)
	assert.Less(t, cmds[0].FirstSeq, cmds[0].Seq)

	trs, err := j.Transitions(ctx, s.ID, "command", 7)
	require.NoError(t, err)
	states := make([]string, len(trs))
	for i, tr := range trs {
		states[i] = tr.State
	}
	assert.Equal(t, []string{"sent", "executed", "completed"}, states)
}

func TestRecordCommand_SkipsUnsent(t *testing.T) {
	j, _ := createTestJournal(t, "s")
	ctx := context.Background()
	s, err := j.StartSession(ctx, "mill")
	require.NoError(t, err)

	require.NoError(t, j.RecordCommand(ctx, s.ID, "command", command.TaskAbort()))

	cmds, err := j.Commands(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestRecordCommand_SameTicketDifferentService(t *testing.T) {
	j, _ := createTestJournal(t, "s")
	ctx := context.Background()
	s, err := j.StartSession(ctx, "mill")
	require.NoError(t, err)

	require.NoError(t, j.RecordCommand(ctx, s.ID, "command", sentCommand(1)))
	require.NoError(t, j.RecordCommand(ctx, s.ID, "halrcmd", sentCommand(1)))

	cmds, err := j.Commands(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, "command", cmds[0].Service)
	assert.Equal(t, "halrcmd", cmds[1].Service)
}

func TestRecordCommand_UnknownSession(t *testing.T) {
	j, _ := createTestJournal(t)

	err := j.RecordCommand(context.Background(), "nope", "command", sentCommand(1))
	assert.Error(t, err, "foreign key must reject unknown sessions")
}

func TestRecordNotice(t *testing.T) {
	j, _ := createTestJournal(t, "s")
	ctx := context.Background()
	s, err := j.StartSession(ctx, "mill")
	require.NoError(t, err)

	require.NoError(t, j.RecordNotice(ctx, s.ID, operator.Notice{
		Level:  wire.NoticeError,
		Origin: wire.OriginNML,
		Notes:  []string{"joint 0 following error", "machine stopped"},
	}))
	require.NoError(t, j.RecordNotice(ctx, s.ID, operator.Notice{Level: wire.NoticeText, Origin: wire.OriginOperator, Notes: []string{"tool 3"}}))

	notices, err := j.Notices(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, notices, 2)
	assert.True(t, notices[0].IsError())
	assert.Equal(t, []string{"joint 0 following error", "machine stopped"}, notices[0].Notes)
	assert.True(t, notices[1].IsText())
	assert.Less(t, notices[0].Seq, notices[1].Seq)
}

func TestClockResumesAfterReopen(t *testing.T) {
	j, path := createTestJournal(t, "s1")
	ctx := context.Background()
	s1, err := j.StartSession(ctx, "mill")
	require.NoError(t, err)
	require.NoError(t, j.RecordCommand(ctx, s1.ID, "command", sentCommand(1)))
	require.NoError(t, j.Close())

	j2, err := Open(path, WithSessionIDs(NewFixedGenerator("s2")))
	require.NoError(t, err)
	defer j2.Close()

	s2, err := j2.StartSession(ctx, "mill")
	require.NoError(t, err)
	assert.Equal(t, int64(3), s2.Seq)
}

func TestFixedGenerator_Exhausted(t *testing.T) {
	g := NewFixedGenerator("a")
	assert.Equal(t, "a", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	a, b := UUIDv7Generator{}.Generate(), UUIDv7Generator{}.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b, "v7 ids sort by creation time")
}

func TestRecorder_JournalsEngineTraffic(t *testing.T) {
	j, _ := createTestJournal(t, "s")
	ctx := context.Background()
	s, err := j.StartSession(ctx, "mill")
	require.NoError(t, err)

	d := testutil.NewFakeDialer()
	e := engine.New(d, engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer e.Close()
	require.NoError(t, e.UpdateEndpoints(ctx, []transport.Endpoint{
		{Service: transport.ServiceCommand, DSN: "tcp://cnc:5001"},
		{Service: transport.ServiceError, DSN: "tcp://cnc:5002"},
	}))

	rec := NewRecorder(j, s.ID, nil)
	rec.Attach(e)

	cmd := command.SetMode(wire.TaskModeAuto)
	e.Commands().SendCommand(cmd)
	sock := d.Socket("tcp://cnc:5001")
	sock.Deliver(testutil.Encode(t, testutil.Executed(cmd.Ticket())))
	sock.Deliver(testutil.Encode(t, testutil.Completed(cmd.Ticket())))
	d.Socket("tcp://cnc:5002").Deliver(testutil.Encode(t, &wire.Container{
		Type: wire.MTEmcOperatorText,
		Note: []string{"program loaded"},
	}))
	e.Pump(ctx)

	trs, err := j.Transitions(ctx, s.ID, "", 0)
	require.NoError(t, err)
	require.Len(t, trs, 2)
	assert.Equal(t, "executed", trs[0].State)
	assert.Equal(t, "completed", trs[1].State)

	notices, err := j.Notices(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, []string{"program loaded"}, notices[0].Notes)

	rec.Detach(e)
	other := command.TaskAbort()
	e.Commands().SendCommand(other)
	sock.Deliver(testutil.Encode(t, testutil.Completed(other.Ticket())))
	e.Pump(ctx)

	cmds, err := j.Commands(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, cmds, 1)
}
