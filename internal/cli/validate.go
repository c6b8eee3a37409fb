package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kinship/internal/graph"
)

// ValidationResult holds graph validation output.
type ValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []graph.Issue `json:"issues,omitempty"`
}

func (r ValidationResult) String() string {
	if r.Valid {
		return "graph is consistent"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d issue(s) found:\n", len(r.Issues))
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "  [%s] %s\n", issue.Code, issue.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the relationship graph for inconsistencies",
		Long: `Rebuild the relationship graph from the store and report diagnostic
issues: self-loops, orphaned phantoms, and relationships whose
complement mirror is missing from the counterpart document.

Diagnostics only; nothing is modified. Run "sync --all" to repair.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	a, err := newApp(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer a.Close()

	issues := a.engine.Graph().Validate()
	result := ValidationResult{Valid: len(issues) == 0, Issues: issues}
	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d issue(s) found", len(issues)))
	}
	return nil
}
