package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cqlc/internal/cql"
)

// CompileResult is the success payload of the compile command.
type CompileResult struct {
	CQL     string      `json:"cql"`
	Params  []any       `json:"params"`
	Options cql.Options `json:"options,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(opts *RootOptions) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "compile <description.yaml>",
		Short: "Compile a query description to a CQL statement",
		Long: `Compile a YAML query description to CQL statement text plus an ordered
list of bound parameters. Parameters appear in the list in the exact
left-to-right order their placeholders appear in the statement text.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args[0], outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")

	return cmd
}

func runCompile(cmd *cobra.Command, opts *RootOptions, descPath, outputFile string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   opts.trace(),
	}

	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return &ExitError{Code: ExitCommandError, Message: "creating output file", Err: err}
		}
		defer f.Close()
		formatter.Writer = f
	}

	formatter.VerboseLog("Loading query description from %s", descPath)

	desc, err := LoadDescription(descPath)
	if err != nil {
		return reportError(formatter, err)
	}

	formatter.VerboseLog("Compiling %s against %s", desc.Op, sourceLabel(desc))

	st, err := compileDescription(desc)
	if err != nil {
		return reportError(formatter, err)
	}

	if opts.Format == "json" {
		if err := formatter.Success(CompileResult{CQL: st.Text, Params: st.Params, Options: st.Options}); err != nil {
			return &ExitError{Code: ExitCommandError, Message: "encoding output", Err: err}
		}
		return nil
	}

	fmt.Fprintln(formatter.Writer, st.Text)
	fmt.Fprintf(formatter.Writer, "params: %v\n", st.Params)
	return nil
}

// compileDescription dispatches the description to the compiler entry
// point its op selects.
func compileDescription(desc *Description) (*cql.Statement, error) {
	switch desc.Op {
	case OpSelect:
		return cql.All(desc.Query, desc.Options)
	case OpUpdateAll:
		return cql.UpdateAll(desc.Query, desc.Options)
	case OpDeleteAll:
		return cql.DeleteAll(desc.Query, desc.Options)
	case OpInsert:
		return cql.Insert(desc.Source, desc.InsertFields, desc.Options)
	case OpUpdate:
		return cql.Update(desc.Source, desc.Sets, desc.Filters, desc.Options)
	case OpDelete:
		return cql.Delete(desc.Source, desc.Filters, desc.Options)
	default:
		return nil, &LoadError{Code: ErrCodeBadDescription, Message: fmt.Sprintf("unknown op %q", desc.Op)}
	}
}

// reportError writes the error through the formatter and wraps it in an
// ExitError so main exits with the command-error code.
func reportError(formatter *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	message := err.Error()

	var compileErr *cql.CompileError
	var loadErr *LoadError
	switch {
	case errors.As(err, &compileErr):
		code = string(compileErr.Code)
	case errors.As(err, &loadErr):
		code = loadErr.Code
	}

	if ferr := formatter.Error(code, message, nil); ferr != nil {
		return &ExitError{Code: ExitCommandError, Message: "encoding error output", Err: ferr}
	}
	return &ExitError{Code: ExitCommandError, Message: message, Err: err}
}

func sourceLabel(desc *Description) string {
	src := desc.Source
	if desc.Query != nil {
		src = desc.Query.Source
	}
	if src.Keyspace != "" {
		return src.Keyspace + "." + src.Table
	}
	return src.Table
}
