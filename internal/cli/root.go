// Package cli implements the kinship command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	ConfigDir string
	Path      string // store path override
	Backend   string // store backend override
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kinship CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kinship",
		Short: "kinship - relationship consistency for contact documents",
		Long: `kinship keeps typed relationships between contact documents mutually
consistent: structured frontmatter fields, the rendered Related section,
and the in-memory relationship graph always agree.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", defaultConfigDir(), "configuration directory")
	cmd.PersistentFlags().StringVar(&opts.Path, "path", "", "store path (vault directory or sqlite file), overrides config")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "store backend (vault|sqlite), overrides config")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewLocksCommand(opts))

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

// defaultConfigDir resolves the per-user configuration directory.
func defaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".kinship"
	}
	return filepath.Join(base, "kinship")
}
