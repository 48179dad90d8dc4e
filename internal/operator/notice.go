// Package operator turns the controller's error channel into notices for
// the machine operator.
//
// The channel carries operator and NML messages at three levels: error,
// text and display. Each becomes a Notice, is logged, kept in a short
// history, and published to observers with the level as source.
package operator

import (
	"context"
	"log/slog"
	"slices"

	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/wire"
)

// Topics are the error channel sub-topics worth subscribing to.
var Topics = []string{"error", "text", "display"}

// DefaultHistory is the number of notices Log keeps.
const DefaultHistory = 64

// Notice is one message for the operator.
type Notice struct {
	Level  wire.NoticeLevel  `json:"level"`
	Origin wire.NoticeOrigin `json:"origin"`
	Notes  []string          `json:"notes"`
}

func (n Notice) IsError() bool   { return n.Level == wire.NoticeError }
func (n Notice) IsText() bool    { return n.Level == wire.NoticeText }
func (n Notice) IsDisplay() bool { return n.Level == wire.NoticeDisplay }

// Observer receives notices. The source is the notice level.
type Observer = notify.Observer[Notice]

// Log collects notices from the error channel.
//
// Thread-safety: Process runs on the pump goroutine; Recent may be called
// from anywhere only through Engine.Submit.
type Log struct {
	logger  *slog.Logger
	bus     notify.Bus[Notice]
	history []Notice
	limit   int
}

// New creates a Log keeping the last limit notices. A limit <= 0 means
// DefaultHistory.
func New(logger *slog.Logger, limit int) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &Log{logger: logger.With("component", "operator"), limit: limit}
}

// Process handles one container from the error channel. It reports the
// notice, or false when the container was not one.
func (l *Log) Process(c *wire.Container) (Notice, bool) {
	msg, ok := wire.Classify(c).(wire.OperatorNotice)
	if !ok {
		l.logger.Warn("unknown container on error channel", "type", c.Type)
		return Notice{}, false
	}

	n := Notice{Level: msg.Level, Origin: msg.Origin, Notes: slices.Clone(msg.Notes)}
	level := slog.LevelInfo
	if n.IsError() {
		level = slog.LevelError
	}
	for _, note := range n.Notes {
		l.logger.Log(context.Background(), level, "operator notice", "level", n.Level, "origin", n.Origin, "note", note)
	}

	l.history = append(l.history, n)
	if over := len(l.history) - l.limit; over > 0 {
		l.history = slices.Delete(l.history, 0, over)
	}
	l.bus.Notify(string(n.Level), n)
	return n, true
}

// Attach registers obs for the given levels, or for all of them.
func (l *Log) Attach(obs Observer, levels ...wire.NoticeLevel) {
	sources := make([]string, len(levels))
	for i, lv := range levels {
		sources[i] = string(lv)
	}
	l.bus.Attach(obs, sources...)
}

func (l *Log) Detach(obs Observer) { l.bus.Detach(obs) }

// Recent returns the kept notices, oldest first.
func (l *Log) Recent() []Notice { return slices.Clone(l.history) }
