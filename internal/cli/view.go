package cli

import (
	"github.com/spf13/cobra"
)

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <entity-id>",
		Short: "Refresh an entity's rendered Related section",
		Long: `Regenerate the rendered Related section from the entity's structured
fields. A display-only refresh: the relationship graph is not touched
and other documents are never written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runView(opts *RootOptions, cmd *cobra.Command, id string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.engine.ViewSync(ctx, id); err != nil {
		return WrapExitError(ExitCommandError, "view sync "+id, err)
	}
	return formatter.Success(SyncResult{Entity: id, Mode: "view", Synced: 1})
}
