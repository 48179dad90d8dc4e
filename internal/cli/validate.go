package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/mksync/internal/config"
	"github.com/roach88/mksync/internal/transport"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                 `json:"valid"`
	File      string               `json:"file"`
	Machine   string               `json:"machine,omitempty"`
	Endpoints []transport.Endpoint `json:"endpoints,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a machine config file",
		Long: `Validate a machine config file without connecting.

The file is checked against the config schema (unknown keys, enums, port
ranges) and for consistency (duplicate services, endpoints without an
address). Defaults to the file named by --config.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Config
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := formatter(opts, cmd)
	f.VerboseLog("Validating %s", path)

	cfg, err := config.Load(path)
	if err != nil {
		// Validation failures = exit code 1 (test/validation failure)
		return f.Report(Failure(ExitFailure, ErrCodeConfig, fmt.Sprintf("%s is not valid", path), err))
	}

	result := ValidationResult{Valid: true, File: path, Machine: cfg.Machine, Endpoints: cfg.Endpoints}
	if f.Format == "json" {
		return f.Success(result)
	}

	fmt.Fprintf(f.Writer, "✓ %s valid (machine %s)\n", path, cfg.Machine)
	if len(cfg.Endpoints) == 0 {
		return nil
	}
	rows := make([]table.Row, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		rows = append(rows, table.Row{ep.Service, ep.ConnString()})
	}
	return f.Table(result, table.Row{"Service", "Endpoint"}, rows)
}
