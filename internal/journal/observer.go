package journal

import (
	"context"
	"log/slog"

	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/operator"
)

// Recorder journals one session. Attach CommandObserver to each dispatcher
// and NoticeObserver to the operator log.
//
// Observers run on the pump goroutine, so writes are synchronous. Write
// errors are logged and otherwise ignored; the journal never interferes
// with machine control.
type Recorder struct {
	journal *Journal
	session string
	logger  *slog.Logger

	commands *commandObserver
	notices  *noticeObserver
}

// NewRecorder creates a Recorder for session.
func NewRecorder(j *Journal, session string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{journal: j, session: session, logger: logger.With("component", "journal")}
	r.commands = &commandObserver{r: r}
	r.notices = &noticeObserver{r: r}
	return r
}

// Session returns the session id.
func (r *Recorder) Session() string { return r.session }

func (r *Recorder) CommandObserver() engine.Observer  { return r.commands }
func (r *Recorder) NoticeObserver() operator.Observer { return r.notices }

// Attach registers the recorder on both dispatchers and the operator log
// of e.
func (r *Recorder) Attach(e *engine.Engine) {
	e.Commands().Attach(r.commands)
	e.HalCommands().Attach(r.commands)
	e.Notices().Attach(r.notices)
}

func (r *Recorder) Detach(e *engine.Engine) {
	e.Commands().Detach(r.commands)
	e.HalCommands().Detach(r.commands)
	e.Notices().Detach(r.notices)
}

type commandObserver struct{ r *Recorder }

func (o *commandObserver) Changed(service string, ev engine.Event) {
	if ev.Kind != engine.EventCommandChanged || ev.Command == nil {
		return
	}
	if err := o.r.journal.RecordCommand(context.Background(), o.r.session, service, ev.Command); err != nil {
		o.r.logger.Warn("failed to journal command", "command", ev.Command.String(), "error", err)
	}
}

type noticeObserver struct{ r *Recorder }

func (o *noticeObserver) Changed(_ string, n operator.Notice) {
	if err := o.r.journal.RecordNotice(context.Background(), o.r.session, n); err != nil {
		o.r.logger.Warn("failed to journal notice", "level", n.Level, "error", err)
	}
}
