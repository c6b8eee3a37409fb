package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/kinship/internal/rel"
)

// EntityListResult holds the output of "list" without arguments.
type EntityListResult struct {
	Entities []EntityItem `json:"entities"`
}

// EntityItem is one entity row.
type EntityItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r EntityListResult) String() string {
	if len(r.Entities) == 0 {
		return "no entities"
	}
	var b strings.Builder
	for _, e := range r.Entities {
		fmt.Fprintf(&b, "%s\t%s\n", e.ID, e.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RelationListResult holds the output of "list <entity-id>".
type RelationListResult struct {
	Entity    string         `json:"entity"`
	Relations []RelationItem `json:"relations"`
}

// RelationItem is one relationship row.
type RelationItem struct {
	Kind    string `json:"kind"`
	Target  string `json:"target"`
	ID      string `json:"id,omitempty"`
	Phantom bool   `json:"phantom,omitempty"`
}

func (r RelationListResult) String() string {
	if len(r.Relations) == 0 {
		return r.Entity + ": no relationships"
	}
	var b strings.Builder
	for _, item := range r.Relations {
		marker := item.ID
		if item.Phantom {
			marker = "(phantom)"
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\n", item.Kind, item.Target, marker)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [entity-id]",
		Short: "List entities, or one entity's relationships",
		Long: `Without arguments, list every entity in the store. With an entity id,
list that entity's relationships from the graph in canonical order.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, args)
		},
	}
	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command, args []string) error {
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

	if len(args) == 0 {
		refs, err := a.store.ListEntities(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "list entities", err)
		}
		result := EntityListResult{Entities: make([]EntityItem, 0, len(refs))}
		for _, ref := range refs {
			result.Entities = append(result.Entities, EntityItem{ID: ref.ID, Name: ref.DisplayName})
		}
		return formatter.Success(result)
	}

	id := args[0]
	records := a.engine.Graph().RecordsFrom(id)
	result := RelationListResult{Entity: id, Relations: make([]RelationItem, 0, len(records))}
	for _, r := range records {
		item := RelationItem{
			Kind:   rel.DisplayTerm(r.Kind, r.Gender),
			Target: r.Target.Name,
			ID:     r.Target.ID,
		}
		if !r.Target.Resolved() {
			item.Phantom = true
		}
		result.Relations = append(result.Relations, item)
	}
	return formatter.Success(result)
}
