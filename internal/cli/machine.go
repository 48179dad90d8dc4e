package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mksync/internal/command"
	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/status"
	"github.com/roach88/mksync/internal/wire"
)

// NewHomeCommand creates the home command.
func NewHomeCommand(rootOpts *RootOptions) *cobra.Command {
	var axes []int32

	cmd := &cobra.Command{
		Use:   "home",
		Short: "Home machine axes",
		Long: `Switch to manual mode and home the machine.

Without --axis every configured axis is homed in one batch and the command
waits until the controller reports all of them homed.

Example:
  mksync home
  mksync home --axis 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := []wire.StatusTopic{wire.TopicTask, wire.TopicConfig, wire.TopicMotion}
			return runPlan(cmd, rootOpts, topics, func(m *status.Mirror) ([]command.Batch, error) {
				if len(axes) == 0 {
					return engine.HomeAllSequence(m), nil
				}
				return homeAxesSequence(m, axes), nil
			})
		},
	}

	cmd.Flags().Int32SliceVar(&axes, "axis", nil, "home only these axis indexes")
	return cmd
}

func homeAxesSequence(m *status.Mirror, axes []int32) []command.Batch {
	var seq []command.Batch
	for _, c := range engine.TaskModeManual(m, false) {
		seq = append(seq, command.Batch{c})
	}
	homes := make(command.Batch, 0, len(axes))
	for _, i := range axes {
		homes = append(homes, command.AxisHome(i))
	}
	return append(seq, homes)
}

// NewMachineCommand creates the machine command.
func NewMachineCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machine <on|off|estop|estop-reset>",
		Short: "Change the machine state",
		Long: `Change the machine power or emergency stop state.

"on" releases the emergency stop first when it is engaged.

Example:
  mksync machine on
  mksync machine estop`,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     []string{"on", "off", "estop", "estop-reset"},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := machinePlan(args[0])
			if err != nil {
				return formatter(rootOpts, cmd).Report(Failure(ExitCommandError, ErrCodeBadSyntax, "invalid machine state", err))
			}
			return runPlan(cmd, rootOpts, []wire.StatusTopic{wire.TopicTask, wire.TopicIO}, plan)
		},
	}
	return cmd
}

func machinePlan(state string) (Plan, error) {
	switch state {
	case "on", "off":
		on := state == "on"
		return func(m *status.Mirror) ([]command.Batch, error) {
			return engine.PowerSequence(m, on), nil
		}, nil
	case "estop", "estop-reset":
		engage := state == "estop"
		return func(*status.Mirror) ([]command.Batch, error) {
			return []command.Batch{{command.Estop(engage)}}, nil
		}, nil
	}
	return nil, fmt.Errorf("unknown state %q: must be one of on, off, estop, estop-reset", state)
}

// NewJogCommand creates the jog command.
func NewJogCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		velocity float64
		stop     bool
	)

	cmd := &cobra.Command{
		Use:   "jog <axis>[=distance]...",
		Short: "Jog machine axes",
		Long: `Switch to manual mode and jog one or more axes together.

An axis is given by index or letter (x, y, z, a, b, c, u, v, w). With a
distance the axis moves by that amount; without one it jogs continuously
until stopped with --stop.

Example:
  mksync jog x=10 y=-5 --velocity 20
  mksync jog z --velocity -2
  mksync jog z --stop`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jogs, err := parseJogs(args, velocity, stop)
			if err != nil {
				return formatter(rootOpts, cmd).Report(Failure(ExitCommandError, ErrCodeBadSyntax, "invalid jog", err))
			}
			return runPlan(cmd, rootOpts, []wire.StatusTopic{wire.TopicTask}, func(m *status.Mirror) ([]command.Batch, error) {
				return engine.JogSequence(m, jogs...), nil
			})
		},
	}

	cmd.Flags().Float64Var(&velocity, "velocity", 10, "jog velocity in machine units per second")
	cmd.Flags().BoolVar(&stop, "stop", false, "stop a continuous jog")
	return cmd
}

// parseJogs turns "x=10" style arguments into jog commands.
func parseJogs(args []string, velocity float64, stop bool) ([]*command.Command, error) {
	if velocity == 0 && !stop {
		return nil, fmt.Errorf("velocity must not be zero")
	}
	jogs := make([]*command.Command, 0, len(args))
	for _, arg := range args {
		name, dist, hasDist := strings.Cut(arg, "=")
		axis, err := parseAxis(name)
		if err != nil {
			return nil, err
		}
		switch {
		case stop:
			if hasDist {
				return nil, fmt.Errorf("%s: --stop takes no distance", arg)
			}
			jogs = append(jogs, command.AxisAbort(axis))
		case hasDist:
			d, err := strconv.ParseFloat(dist, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid distance: %w", arg, err)
			}
			if velocity < 0 {
				velocity = -velocity
			}
			jogs = append(jogs, command.AxisIncrJog(axis, velocity, d))
		default:
			jogs = append(jogs, command.AxisJog(axis, velocity))
		}
	}
	return jogs, nil
}

func parseAxis(s string) (int32, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 {
		if i := strings.IndexByte(status.AxisLetters, s[0]); i >= 0 {
			return int32(i), nil
		}
	}
	i, err := strconv.ParseInt(s, 10, 32)
	if err != nil || i < 0 || i >= int64(len(status.AxisLetters)) {
		return 0, fmt.Errorf("unknown axis %q", s)
	}
	return int32(i), nil
}
