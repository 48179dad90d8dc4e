package cli

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/mksync/internal/journal"
	"github.com/roach88/mksync/internal/transport"
)

// DefaultTimeout bounds one-shot commands.
const DefaultTimeout = 10 * time.Second

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string
	Timeout time.Duration

	// Dialer overrides the ZeroMQ dialer (for testing).
	Dialer transport.Dialer
	// SessionIDs overrides the journal session id generator (for testing).
	SessionIDs journal.SessionIDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the mksync CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MKSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "mksync",
		Short: "mksync - machine controller client",
		Long: `A client for machine-tool controllers speaking the Machinekit remote protocol.

mksync mirrors the controller's status and HAL state, sends commands and
command sequences, and journals every command it sends.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Config = v.GetString("config")
			opts.Format = v.GetString("format")
			opts.Verbose = v.GetBool("verbose")
			opts.Timeout = v.GetDuration("timeout")

			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Timeout <= 0 {
				return fmt.Errorf("invalid timeout %s: must be positive", opts.Timeout)
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "mksync.yaml", "path to the machine config file")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("format", "text", "output format (json|text)")
	flags.Duration("timeout", DefaultTimeout, "how long one-shot commands wait for the machine")
	for _, name := range []string{"config", "verbose", "format", "timeout"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewHomeCommand(opts))
	cmd.AddCommand(NewMachineCommand(opts))
	cmd.AddCommand(NewJogCommand(opts))
	cmd.AddCommand(NewMDICommand(opts))
	cmd.AddCommand(NewProgramCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the output formatter for cmd.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
