package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cqlc/internal/queryast"
)

// ValidationReport is the success payload of the validate command.
type ValidationReport struct {
	Supported bool     `json:"supported"`
	Warnings  []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <description.yaml>",
		Short: "Check a query description against the CQL subset",
		Long: `Walk a query description and report every construct the CQL target
cannot express, instead of stopping at the first offense the way
compilation does. Exits 0 when the description is fully supported and
1 when it is not.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args[0])
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions, descPath string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   opts.trace(),
	}

	desc, err := LoadDescription(descPath)
	if err != nil {
		return reportError(formatter, err)
	}

	report := validateDescription(desc)

	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return &ExitError{Code: ExitCommandError, Message: "encoding output", Err: err}
		}
	} else {
		writeReport(formatter, report)
	}

	if !report.Supported {
		return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d unsupported constructs", len(report.Warnings))}
	}
	return nil
}

// validateDescription runs the advisory walk for any operation. The
// query-shaped operations go straight through queryast.Validate; the
// field-list operations are checked column by column.
func validateDescription(desc *Description) ValidationReport {
	if desc.Query != nil {
		result := queryast.Validate(desc.Query)
		return ValidationReport{Supported: result.Supported, Warnings: result.Warnings}
	}

	var warnings []string
	checkIdent := func(name string) {
		if !queryast.ValidIdent(name) {
			warnings = append(warnings, fmt.Sprintf("bad identifier %q", name))
		}
	}

	checkIdent(desc.Source.Table)
	if desc.Source.Keyspace != "" {
		checkIdent(desc.Source.Keyspace)
	}
	for _, f := range desc.InsertFields {
		checkIdent(f.Column)
		if _, isNull := f.Value.(queryast.Null); isNull {
			warnings = append(warnings, fmt.Sprintf("null value for column %q", f.Column))
		}
	}
	for _, f := range desc.Sets {
		checkIdent(f.Column)
	}
	for _, f := range desc.Filters {
		checkIdent(f.Column)
		if _, isNull := f.Value.(queryast.Null); isNull {
			warnings = append(warnings, fmt.Sprintf("null value for column %q", f.Column))
		}
	}

	return ValidationReport{Supported: len(warnings) == 0, Warnings: warnings}
}

func writeReport(formatter *OutputFormatter, report ValidationReport) {
	if report.Supported {
		fmt.Fprintln(formatter.Writer, "supported")
		return
	}
	fmt.Fprintf(formatter.Writer, "unsupported (%d warnings)\n", len(report.Warnings))
	for _, w := range report.Warnings {
		fmt.Fprintf(formatter.Writer, "  - %s\n", w)
	}
}
