package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/notify"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	AckToolChange bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Keep a session open to the machine",
		Long: `Connect to the machine and keep the session open until interrupted.

The status, HAL and notice mirrors are kept current, every command is
journalled when journal.path is set, metrics are served on metrics.addr,
and endpoint changes in the config file are applied without a restart.

Example:
  mksync run --config /etc/mksync/mill.yaml
  mksync run --ack-toolchange --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.AckToolChange, "ack-toolchange", false, "acknowledge manual tool changes automatically")
	return cmd
}

func runSession(opts *RunOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	s, err := OpenSession(cmd.Context(), opts.RootOptions, SessionOptions{Watch: true, Serve: true}, cmd.ErrOrStderr())
	if err != nil {
		return f.Report(err)
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			s.Logger().Error("error closing session", "error", closeErr)
		}
	}()
	e := s.Engine()
	logger := s.Logger()

	events := notify.ObserverFunc(func(service string, ev engine.Event) {
		switch ev.Kind {
		case engine.EventConnected:
			logger.Info("service connected", "service", service, "endpoint", ev.Endpoint.ConnString())
		case engine.EventDisconnected:
			logger.Info("service disconnected", "service", service)
		case engine.EventTerminated:
			logger.Error("service terminated", "service", service, "notes", ev.Notes)
		}
	})
	e.Attach(events)
	defer e.Detach(events)

	if opts.AckToolChange {
		tc := newToolChanger(e, logger)
		tc.attach()
		defer tc.detach()
	}

	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Session open to %s. Press Ctrl-C to stop.\n", s.Config().Machine)

	if err := s.Run(ctx, nil); err != nil && !isShutdown(err) {
		return f.Report(Failure(ExitFailure, ErrCodeGeneric, "session error", err))
	}

	logger.Info("session stopped gracefully")
	return nil
}
