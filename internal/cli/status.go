package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/status"
	"github.com/roach88/mksync/internal/wire"
)

// StatusValue is one reported status field.
type StatusValue struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// StatusReport is the JSON shape of the status command.
type StatusReport struct {
	Machine string        `json:"machine"`
	Values  []StatusValue `json:"values"`
}

type statusField struct {
	label  string
	path   string
	format func(any) any
}

func enum[T ~int32](name func(T) string) func(any) any {
	return func(v any) any {
		if i, ok := v.(int32); ok {
			return name(T(i))
		}
		return v
	}
}

var defaultStatusFields = []statusField{
	{"Mode", "task.task.mode", enum(wire.TaskMode.String)},
	{"State", "task.task.state", enum(wire.TaskState.String)},
	{"Interpreter", "interp.state", enum(wire.InterpState.String)},
	{"Estop", "io.estop", nil},
	{"Tool", "io.tool.nr", nil},
	{"Program", "task.file", nil},
	{"Line", "task.line.nr", nil},
	{"X", "motion.position.actual.x", nil},
	{"Y", "motion.position.actual.y", nil},
	{"Z", "motion.position.actual.z", nil},
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	var paths []string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the machine status",
		Long: `Connect, wait for the status broadcast and print a snapshot.

With --path only the given dotted paths are printed, e.g.
"motion.axis.0.homed" or "io.tool.nr".

Example:
  mksync status
  mksync status --path task.file --path motion.position.actual.x --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, paths, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&paths, "path", nil, "status path to print (repeatable)")
	return cmd
}

func runStatus(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	fields := defaultStatusFields
	if len(paths) > 0 {
		fields = make([]statusField, len(paths))
		for i, p := range paths {
			fields[i] = statusField{label: p, path: strings.TrimPrefix(p, "status.")}
		}
	}
	topics, err := topicsOf(fields)
	if err != nil {
		return f.Report(Failure(ExitCommandError, ErrCodeBadSyntax, "invalid status path", err))
	}

	s, err := OpenSession(cmd.Context(), opts, SessionOptions{}, cmd.ErrOrStderr())
	if err != nil {
		return f.Report(err)
	}
	defer s.Close()

	ctx, cancel := signalContext(cmd.Context(), s.Logger())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, opts.Timeout)
	defer cancelTimeout()

	var report StatusReport
	err = s.Run(ctx, func(e *engine.Engine) (bool, error) {
		if !e.Status().IsValid(topics...) {
			return false, nil
		}
		report = snapshot(s.Config().Machine, e.Status(), fields)
		return true, nil
	})
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return f.Report(Failure(ExitFailure, ErrCodeNotReady, "machine status not received", err))
	case err != nil:
		return f.Report(Failure(ExitFailure, ErrCodeGeneric, "status failed", err))
	}

	rows := make([]table.Row, 0, len(report.Values))
	for _, v := range report.Values {
		rows = append(rows, table.Row{v.Label, displayValue(v.Value)})
	}
	return f.Table(report, table.Row{"Field", "Value"}, rows)
}

// topicsOf returns the status topics the fields live in.
func topicsOf(fields []statusField) ([]wire.StatusTopic, error) {
	var topics []wire.StatusTopic
	for _, fld := range fields {
		head, _, _ := strings.Cut(fld.path, ".")
		t := wire.StatusTopic(head)
		if !slices.Contains(wire.StatusTopics, t) {
			return nil, fmt.Errorf("%q is not under one of %v", fld.path, wire.StatusTopics)
		}
		if !slices.Contains(topics, t) {
			topics = append(topics, t)
		}
	}
	return topics, nil
}

// snapshot reads fields from m. Missing paths report a nil value.
func snapshot(machine string, m *status.Mirror, fields []statusField) StatusReport {
	r := StatusReport{Machine: machine, Values: make([]StatusValue, 0, len(fields))}
	for _, fld := range fields {
		v, ok := m.Lookup(fld.path)
		if ok && fld.format != nil {
			v = fld.format(v)
		}
		if !ok {
			v = nil
		}
		r.Values = append(r.Values, StatusValue{Label: fld.label, Path: fld.path, Value: v})
	}
	return r
}

func displayValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case float64:
		return fmt.Sprintf("%.4f", v)
	}
	return fmt.Sprint(v)
}
