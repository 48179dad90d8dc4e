package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mksync/internal/command"
	"github.com/roach88/mksync/internal/engine"
	"github.com/roach88/mksync/internal/status"
	"github.com/roach88/mksync/internal/wire"
)

// NewMDICommand creates the mdi command.
func NewMDICommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdi <gcode>...",
		Short: "Execute G-code lines in MDI mode",
		Long: `Switch to MDI mode and execute each argument as one line of G-code.

Lines run one after the other; each waits for the previous one to complete.

Example:
  mksync mdi "G0 X0 Y0" "G1 Z-1 F100"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, line := range args {
				if strings.TrimSpace(line) == "" {
					return formatter(rootOpts, cmd).Report(NewExitError(ExitCommandError, "empty MDI line"))
				}
			}
			return runPlan(cmd, rootOpts, []wire.StatusTopic{wire.TopicTask}, func(m *status.Mirror) ([]command.Batch, error) {
				return engine.MDISequence(m, args...), nil
			})
		},
	}
	return cmd
}

// NewProgramCommand creates the program command and its subcommands.
func NewProgramCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "program",
		Short: "Load and run G-code programs",
		Long: `Load, run and control G-code programs on the execute interpreter.

Example:
  mksync program load /home/cnc/parts/bracket.ngc
  mksync program run --line 0
  mksync program pause`,
	}

	cmd.AddCommand(newProgramLoadCommand(rootOpts))
	cmd.AddCommand(newProgramRunCommand(rootOpts))
	cmd.AddCommand(newProgramSimpleCommand(rootOpts, "pause", "Pause the running program", command.TaskPause))
	cmd.AddCommand(newProgramSimpleCommand(rootOpts, "resume", "Resume a paused program", command.TaskResume))
	cmd.AddCommand(newProgramSimpleCommand(rootOpts, "step", "Execute the next program line", command.TaskStep))
	cmd.AddCommand(newProgramSimpleCommand(rootOpts, "abort", "Abort the running program", command.TaskAbort))
	return cmd
}

func newProgramLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "load <path>",
		Short:         "Open a program file on the controller",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			return runPlan(cmd, rootOpts, []wire.StatusTopic{wire.TopicTask}, func(m *status.Mirror) ([]command.Batch, error) {
				return engine.LoadProgramSequence(m, path), nil
			})
		},
	}
}

func newProgramRunCommand(rootOpts *RootOptions) *cobra.Command {
	var line int32

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the loaded program",
		Long: `Run the loaded program.

The spindle is cleared with M6 T0 first and the command waits until no tool
is loaded before switching to auto mode and starting the program.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, rootOpts, []wire.StatusTopic{wire.TopicTask, wire.TopicIO}, func(m *status.Mirror) ([]command.Batch, error) {
				return engine.RunProgramSequence(m, line), nil
			})
		},
	}

	cmd.Flags().Int32Var(&line, "line", 0, "program line to start from")
	return cmd
}

func newProgramSimpleCommand(rootOpts *RootOptions, use, short string, build func() *command.Command) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, rootOpts, []wire.StatusTopic{wire.TopicTask}, func(*status.Mirror) ([]command.Batch, error) {
				return []command.Batch{{build()}}, nil
			})
		},
	}
}
