package cli

import (
	"context"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/mksync/internal/config"
	"github.com/roach88/mksync/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // empty means the latest session
	Sessions bool   // list sessions instead
	Service  string
	Ticket   int32 // with Service, show one command's transitions
	Notices  bool
}

// TraceResult holds the trace of one session.
type TraceResult struct {
	Session     journal.Session         `json:"session"`
	Commands    []journal.CommandRecord `json:"commands"`
	Transitions []journal.Transition    `json:"transitions,omitempty"`
	Notices     []journal.NoticeRecord  `json:"notices,omitempty"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show journalled commands",
		Long: `Show what the journal recorded for a session.

Lists every command sent in the session with its final state. With
--ticket the individual lifecycle transitions of one command are shown,
with --notices the operator notices received.

The journal defaults to journal.path of the config file.

Examples:
  mksync trace --sessions
  mksync trace --db ./mill.db
  mksync trace --session 0192f1c2-... --ticket 4 --service command
  mksync trace --notices --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the journal database (default journal.path)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (default latest)")
	cmd.Flags().BoolVar(&opts.Sessions, "sessions", false, "list sessions")
	cmd.Flags().StringVar(&opts.Service, "service", "command", "command service of --ticket")
	cmd.Flags().Int32Var(&opts.Ticket, "ticket", 0, "show the transitions of one command")
	cmd.Flags().BoolVar(&opts.Notices, "notices", false, "include operator notices")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	path := opts.Database
	if path == "" {
		cfg, err := config.Load(opts.Config)
		if err != nil {
			return f.Report(Failure(ExitCommandError, ErrCodeConfig, "no --db given and config not loadable", err))
		}
		if cfg.Journal.Path == "" {
			return f.Report(Failure(ExitCommandError, ErrCodeJournal, "no --db given and journal.path not set", nil))
		}
		path = cfg.Journal.Path
	}

	if _, err := os.Stat(path); err != nil {
		return f.Report(Failure(ExitCommandError, ErrCodeJournal, "journal not found", err))
	}
	j, err := journal.Open(path)
	if err != nil {
		return f.Report(Failure(ExitCommandError, ErrCodeJournal, "failed to open journal", err))
	}
	defer j.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Sessions {
		return listSessions(ctx, f, j)
	}

	session, err := resolveSession(ctx, j, opts.Session)
	if err != nil {
		return f.Report(err)
	}

	result := TraceResult{Session: session}
	if result.Commands, err = j.Commands(ctx, session.ID); err != nil {
		return f.Report(Failure(ExitCommandError, ErrCodeJournal, "failed to read commands", err))
	}
	if opts.Ticket != 0 {
		if result.Transitions, err = j.Transitions(ctx, session.ID, opts.Service, opts.Ticket); err != nil {
			return f.Report(Failure(ExitCommandError, ErrCodeJournal, "failed to read transitions", err))
		}
	}
	if opts.Notices {
		if result.Notices, err = j.Notices(ctx, session.ID); err != nil {
			return f.Report(Failure(ExitCommandError, ErrCodeJournal, "failed to read notices", err))
		}
	}

	if f.Format == "json" {
		return f.Success(result)
	}
	return outputTraceText(f, result, opts)
}

func resolveSession(ctx context.Context, j *journal.Journal, id string) (journal.Session, error) {
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return journal.Session{}, Failure(ExitCommandError, ErrCodeJournal, "failed to read sessions", err)
	}
	if len(sessions) == 0 {
		return journal.Session{}, Failure(ExitCommandError, ErrCodeJournal, "journal has no sessions", nil)
	}
	if id == "" {
		return sessions[len(sessions)-1], nil
	}
	for _, s := range sessions {
		if s.ID == id || strings.HasPrefix(s.ID, id) {
			return s, nil
		}
	}
	return journal.Session{}, Failure(ExitCommandError, ErrCodeJournal, "session "+id+" not found", nil)
}

func listSessions(ctx context.Context, f *OutputFormatter, j *journal.Journal) error {
	sessions, err := j.Sessions(ctx)
	if err != nil {
		return f.Report(Failure(ExitCommandError, ErrCodeJournal, "failed to read sessions", err))
	}
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{s.ID, s.Machine, s.StartedAt.Format("2006-01-02 15:04:05"), s.Seq})
	}
	return f.Table(sessions, table.Row{"Session", "Machine", "Started", "Seq"}, rows)
}

func outputTraceText(f *OutputFormatter, result TraceResult, opts *TraceOptions) error {
	s := result.Session
	f.Line(nil, "Session %s (%s, started %s)", s.ID, s.Machine, s.StartedAt.Format("2006-01-02 15:04:05"))

	if len(result.Commands) == 0 {
		f.Line(nil, "No commands recorded.")
	} else {
		rows := make([]table.Row, 0, len(result.Commands))
		for _, c := range result.Commands {
			rows = append(rows, table.Row{c.FirstSeq, c.Service, c.Ticket, c.Type, c.Detail, c.State})
		}
		f.Table(nil, table.Row{"Seq", "Service", "Ticket", "Command", "Detail", "State"}, rows)
	}

	if opts.Ticket != 0 {
		f.Line(nil, "")
		f.Line(nil, "Transitions of %s ticket %d:", opts.Service, opts.Ticket)
		if len(result.Transitions) == 0 {
			f.Line(nil, "  none")
		}
		for _, t := range result.Transitions {
			f.Line(nil, "  [%d] %s", t.Seq, t.State)
		}
	}

	if opts.Notices {
		f.Line(nil, "")
		f.Line(nil, "Notices:")
		if len(result.Notices) == 0 {
			f.Line(nil, "  none")
		}
		for _, n := range result.Notices {
			f.Line(nil, "  [%d] %s (%s): %s", n.Seq, n.Level, n.Origin, strings.Join(n.Notes, "; "))
		}
	}
	return nil
}
