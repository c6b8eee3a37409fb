package harness

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/kinship/internal/engine"
	"github.com/roach88/kinship/internal/graph"
	"github.com/roach88/kinship/internal/store"
)

// Run executes a scenario against a fresh in-memory store and engine,
// then compares the final corpus dump with the scenario's golden file.
func Run(t *testing.T, path string) {
	t.Helper()

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	mem := store.NewMemory()
	for _, doc := range scenario.Docs {
		mem.Put(doc.ID, doc.Name, doc.Text)
	}

	e := engine.New(mem, graph.New(), zap.NewNop())
	ctx := context.Background()
	require.NoError(t, e.Rebuild(ctx))

	for i, step := range scenario.Steps {
		switch step.Op {
		case "edit":
			err = e.UserEditSync(ctx, step.Entity)
		case "view":
			err = e.ViewSync(ctx, step.Entity)
		case "full":
			err = e.FullSync(ctx, step.Entity)
		case "all":
			err = e.SyncAll(ctx)
		case "add":
			mem.Put(step.Entity, step.Name, step.Text)
		}
		require.NoError(t, err, "step %d (%s)", i, step.Op)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, scenario.Name, []byte(Dump(ctx, t, mem)))
}

// Dump renders the whole corpus in a stable text form: entities sorted
// by id, frontmatter fields sorted by key, body verbatim.
func Dump(ctx context.Context, t *testing.T, s store.EntityStore) string {
	t.Helper()

	refs, err := s.ListEntities(ctx)
	require.NoError(t, err)

	var b strings.Builder
	for _, ref := range refs {
		text, err := s.ReadText(ctx, ref)
		require.NoError(t, err)
		doc := store.ParseDocument(text)

		fmt.Fprintf(&b, "== %s (%s)\n", ref.ID, ref.DisplayName)

		fields := doc.Fields()
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, fields[k])
		}

		b.WriteString("--\n")
		body := doc.Body
		if body != "" && !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}
