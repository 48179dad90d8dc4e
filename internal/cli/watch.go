package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/notify"
	"github.com/roach88/mksync/internal/operator"
	"github.com/roach88/mksync/internal/wire"
)

// WatchEvent is one line of watch output.
type WatchEvent struct {
	Kind   string   `json:"kind"` // status | hal | notice | service
	Source string   `json:"source"`
	Path   string   `json:"path,omitempty"`
	Value  any      `json:"value,omitempty"`
	Notes  []string `json:"notes,omitempty"`
}

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Topics        []string
	HAL           bool
	AckToolChange bool
	Duration      time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream status changes and operator notices",
		Long: `Connect and print every change of the mirrored machine state as it
arrives: status paths, HAL pins, operator notices and service events.

With --format json each event is one JSON object per line.

Example:
  mksync watch --topic task --topic io
  mksync watch --hal --ack-toolchange --duration 10m`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Topics, "topic", nil, "status topics to print (default all)")
	cmd.Flags().BoolVar(&opts.HAL, "hal", false, "print HAL pin changes")
	cmd.Flags().BoolVar(&opts.AckToolChange, "ack-toolchange", false, "acknowledge manual tool changes automatically")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "stop after this long (default until interrupted)")
	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	topics := make([]wire.StatusTopic, 0, len(opts.Topics))
	for _, t := range opts.Topics {
		topics = append(topics, wire.StatusTopic(t))
	}
	if _, err := topicsOf(topicFields(topics)); err != nil {
		return f.Report(Failure(ExitCommandError, ErrCodeBadSyntax, "invalid topic", err))
	}

	s, err := OpenSession(cmd.Context(), opts.RootOptions, SessionOptions{}, cmd.ErrOrStderr())
	if err != nil {
		return f.Report(err)
	}
	defer s.Close()
	e := s.Engine()

	ctx, cancel := signalContext(cmd.Context(), s.Logger())
	defer cancel()
	if opts.Duration > 0 {
		var cancelDuration context.CancelFunc
		ctx, cancelDuration = context.WithTimeout(ctx, opts.Duration)
		defer cancelDuration()
	}

	var writeErr error
	emit := func(ev WatchEvent, format string, args ...any) {
		if writeErr == nil {
			writeErr = f.Line(ev, format, args...)
		}
	}

	statusObs := notify.ObserverFunc(func(topic string, paths []string) {
		for _, p := range paths {
			full := topic + "." + p
			v, _ := e.Status().Lookup(full)
			emit(WatchEvent{Kind: "status", Source: topic, Path: full, Value: v}, "status  %s = %s", full, displayValue(v))
		}
	})
	e.Status().Attach(statusObs, topics...)
	defer e.Status().Detach(statusObs)

	noticeObs := notify.ObserverFunc(func(level string, n operator.Notice) {
		emit(WatchEvent{Kind: "notice", Source: level, Notes: n.Notes}, "notice  %s: %s", level, strings.Join(n.Notes, "; "))
	})
	e.Notices().Attach(noticeObs)
	defer e.Notices().Detach(noticeObs)

	serviceObs := notify.ObserverFunc(func(service string, ev engine.Event) {
		if ev.Kind == engine.EventCommandChanged {
			return
		}
		emit(WatchEvent{Kind: "service", Source: service, Value: ev.Kind.String(), Notes: ev.Notes},
			"service %s %s %s", service, ev.Kind, ev.Endpoint.ConnString())
	})
	e.Attach(serviceObs)
	defer e.Detach(serviceObs)

	if opts.HAL {
		halObs := notify.ObserverFunc(func(comp string, paths []string) {
			for _, p := range paths {
				v, _ := e.HAL().Lookup(p)
				emit(WatchEvent{Kind: "hal", Source: comp, Path: p, Value: v}, "hal     %s = %s", p, displayValue(v))
			}
		})
		e.HAL().Attach(halObs)
		defer e.HAL().Detach(halObs)
	}

	if opts.AckToolChange {
		tc := newToolChanger(e, s.Logger())
		tc.attach()
		defer tc.detach()
	}

	// Services opened by OpenSession connected before the observer existed.
	for _, ep := range e.Endpoints() {
		emit(WatchEvent{Kind: "service", Source: ep.Service, Value: engine.EventConnected.String()},
			"service %s %s %s", ep.Service, engine.EventConnected, ep.ConnString())
	}

	err = s.Run(ctx, func(*engine.Engine) (bool, error) {
		return false, writeErr
	})
	switch {
	case err == nil, isShutdown(err), errors.Is(err, context.DeadlineExceeded):
		return nil
	case writeErr != nil:
		return fmt.Errorf("write output: %w", writeErr)
	}
	return f.Report(Failure(ExitFailure, ErrCodeGeneric, "watch failed", err))
}

func topicFields(topics []wire.StatusTopic) []statusField {
	out := make([]statusField, len(topics))
	for i, t := range topics {
		out[i] = statusField{path: string(t)}
	}
	return out
}
