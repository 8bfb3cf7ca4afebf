package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Tokens generates trace ids for JSON responses. Defaults to UUIDv7;
	// tests inject a FixedGenerator for deterministic output. Cosmetic
	// only - it never affects the compiled statement.
	Tokens TokenGenerator
}

// trace returns a fresh trace id, falling back to UUIDv7 when no
// generator was configured.
func (o *RootOptions) trace() string {
	if o.Tokens == nil {
		return UUIDv7Generator{}.Generate()
	}
	return o.Tokens.Generate()
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cqlc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Tokens: UUIDv7Generator{}}

	cmd := &cobra.Command{
		Use:   "cqlc",
		Short: "cqlc - CQL statement compiler",
		Long:  "Compile normalized query descriptions to CQL statement text with positionally bound parameters.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
