package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/mksync/internal/command"
	"github.com/roach88/mksync/internal/operator"
)

// Session is one connection lifetime to a machine.
type Session struct {
	ID        string    `json:"id"`
	Machine   string    `json:"machine"`
	StartedAt time.Time `json:"started_at"`
	Seq       int64     `json:"seq"`
}

// StartSession records a new session and returns it.
func (j *Journal) StartSession(ctx context.Context, machine string) (Session, error) {
	s := Session{
		ID:        j.ids.Generate(),
		Machine:   machine,
		StartedAt: time.Now().UTC().Truncate(time.Second),
		Seq:       j.next(),
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, machine, started_at, seq)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.Machine, s.StartedAt.Format(time.RFC3339), s.Seq)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	return s, nil
}

// RecordCommand appends the current state of cmd to the transition log and
// upserts its row in commands. Commands without a ticket were never sent
// and are skipped.
func (j *Journal) RecordCommand(ctx context.Context, session, service string, cmd *command.Command) error {
	ticket := cmd.Ticket()
	if ticket == 0 {
		return nil
	}
	seq := j.next()
	state := cmd.State().String()

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record command: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO commands
		(session_id, service, ticket, type, detail, state, first_seq, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, service, ticket) DO UPDATE SET
			state = excluded.state,
			seq = excluded.seq
	`, session, service, ticket, cmd.Type().String(), cmd.String(), state, seq, seq)
	if err != nil {
		return fmt.Errorf("record command: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transitions (session_id, service, ticket, state, seq)
		VALUES (?, ?, ?, ?, ?)
	`, session, service, ticket, state, seq)
	if err != nil {
		return fmt.Errorf("record transition: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record command: commit: %w", err)
	}
	return nil
}

// RecordNotice appends an operator notice.
func (j *Journal) RecordNotice(ctx context.Context, session string, n operator.Notice) error {
	notes, err := json.Marshal(n.Notes)
	if err != nil {
		return fmt.Errorf("record notice: %w", err)
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO notices (session_id, level, origin, notes, seq)
		VALUES (?, ?, ?, ?, ?)
	`, session, string(n.Level), string(n.Origin), string(notes), j.next())
	if err != nil {
		return fmt.Errorf("record notice: %w", err)
	}
	return nil
}
