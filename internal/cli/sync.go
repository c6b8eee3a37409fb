package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SyncResult reports what one sync invocation did.
type SyncResult struct {
	Entity string `json:"entity,omitempty"`
	Mode   string `json:"mode"`
	Synced int    `json:"synced"`
}

func (r SyncResult) String() string {
	if r.Entity != "" {
		return fmt.Sprintf("synced %s (%s)", r.Entity, r.Mode)
	}
	return fmt.Sprintf("synced %d entities (%s)", r.Synced, r.Mode)
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		full bool
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "sync [entity-id]",
		Short: "Reconcile an entity's document after an edit",
		Long: `Reconcile an entity after its document was edited.

The rendered Related section is diffed against the structured fields,
the difference is applied to the relationship graph, and every other
affected document is rewritten. With --full, phantom targets whose
display name now matches a real entity are upgraded first. With --all,
a full sync runs over every entity in the store.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(rootOpts, cmd, args, full, all)
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "upgrade resolvable phantoms before syncing")
	cmd.Flags().BoolVar(&all, "all", false, "run a full sync over every entity")

	return cmd
}

func runSync(opts *RootOptions, cmd *cobra.Command, args []string, full, all bool) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if !all && len(args) == 0 {
		return NewExitError(ExitCommandError, "entity id required unless --all is set")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if all {
		refs, err := a.store.ListEntities(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "list entities", err)
		}
		if err := a.engine.SyncAll(ctx); err != nil {
			return WrapExitError(ExitCommandError, "sync all", err)
		}
		return formatter.Success(SyncResult{Mode: "all", Synced: len(refs)})
	}

	id := args[0]
	mode := "edit"
	if full {
		mode = "full"
		err = a.engine.FullSync(ctx, id)
	} else {
		err = a.engine.UserEditSync(ctx, id)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "sync "+id, err)
	}
	return formatter.Success(SyncResult{Entity: id, Mode: mode, Synced: 1})
}
