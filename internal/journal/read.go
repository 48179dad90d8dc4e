package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/mksync/internal/operator"
	"github.com/roach88/mksync/internal/wire"
)

// CommandRecord is the latest known state of one command.
type CommandRecord struct {
	Service  string `json:"service"`
	Ticket   int32  `json:"ticket"`
	Type     string `json:"type"`
	Detail   string `json:"detail"`
	State    string `json:"state"`
	FirstSeq int64  `json:"first_seq"`
	Seq      int64  `json:"seq"`
}

// Transition is one recorded lifecycle step.
type Transition struct {
	Service string `json:"service"`
	Ticket  int32  `json:"ticket"`
	State   string `json:"state"`
	Seq     int64  `json:"seq"`
}

// NoticeRecord is a stored operator notice.
type NoticeRecord struct {
	operator.Notice
	Seq int64 `json:"seq"`
}

// Sessions returns every session ordered by seq.
//
// Returns an empty slice (not nil) if there are none.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, machine, started_at, seq
		FROM sessions
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			s       Session
			started string
		)
		if err := rows.Scan(&s.ID, &s.Machine, &started, &s.Seq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parse started_at of %s: %w", s.ID, err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// Latest returns the most recent session, false when there is none.
func (j *Journal) Latest(ctx context.Context) (Session, bool, error) {
	sessions, err := j.Sessions(ctx)
	if err != nil || len(sessions) == 0 {
		return Session{}, false, err
	}
	return sessions[len(sessions)-1], true, nil
}

// Commands returns the commands of a session ordered by the seq of their
// first recorded transition.
func (j *Journal) Commands(ctx context.Context, session string) ([]CommandRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT service, ticket, type, detail, state, first_seq, seq
		FROM commands
		WHERE session_id = ?
		ORDER BY first_seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	records := []CommandRecord{}
	for rows.Next() {
		var r CommandRecord
		if err := rows.Scan(&r.Service, &r.Ticket, &r.Type, &r.Detail, &r.State, &r.FirstSeq, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commands: %w", err)
	}
	return records, nil
}

// Transitions returns the lifecycle log of a session. A non-zero ticket
// restricts it to that ticket on service.
func (j *Journal) Transitions(ctx context.Context, session, service string, ticket int32) ([]Transition, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if ticket == 0 {
		rows, err = j.db.QueryContext(ctx, `
			SELECT service, ticket, state, seq
			FROM transitions
			WHERE session_id = ?
			ORDER BY seq ASC
		`, session)
	} else {
		rows, err = j.db.QueryContext(ctx, `
			SELECT service, ticket, state, seq
			FROM transitions
			WHERE session_id = ? AND service = ? AND ticket = ?
			ORDER BY seq ASC
		`, session, service, ticket)
	}
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	out := []Transition{}
	for rows.Next() {
		var t Transition
		if err := rows.Scan(&t.Service, &t.Ticket, &t.State, &t.Seq); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}
	return out, nil
}

// Notices returns the operator notices of a session ordered by seq.
func (j *Journal) Notices(ctx context.Context, session string) ([]NoticeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT level, origin, notes, seq
		FROM notices
		WHERE session_id = ?
		ORDER BY seq ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("query notices: %w", err)
	}
	defer rows.Close()

	out := []NoticeRecord{}
	for rows.Next() {
		var (
			r             NoticeRecord
			level, origin string
			notes         string
		)
		if err := rows.Scan(&level, &origin, &notes, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		r.Level = wire.NoticeLevel(level)
		r.Origin = wire.NoticeOrigin(origin)
		if err := json.Unmarshal([]byte(notes), &r.Notes); err != nil {
			return nil, fmt.Errorf("unmarshal notes: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notices: %w", err)
	}
	return out, nil
}
