package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// LocksResult holds the output of the locks command.
type LocksResult struct {
	Held    []string `json:"held"`
	Cleared int      `json:"cleared,omitempty"`
}

func (r LocksResult) String() string {
	if r.Cleared > 0 {
		return fmt.Sprintf("cleared %d lock(s)", r.Cleared)
	}
	if len(r.Held) == 0 {
		return "no locks held"
	}
	return "held: " + strings.Join(r.Held, ", ")
}

// NewLocksCommand creates the locks command.
func NewLocksCommand(rootOpts *RootOptions) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "locks",
		Short: "Show or clear per-entity sync locks",
		Long: `Show currently held sync locks. With --clear, force-release every
lock; an emergency recovery tool for a process that died mid-sync.
Locks also expire on their own after the configured lifetime.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocks(rootOpts, cmd, clear)
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "force-release all locks")

	return cmd
}

func runLocks(opts *RootOptions, cmd *cobra.Command, clear bool) error {
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

	if clear {
		return formatter.Success(LocksResult{Cleared: a.engine.ClearLocks()})
	}
	return formatter.Success(LocksResult{Held: a.engine.HeldLocks()})
}
