package section

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/kinship/internal/rel"
)

// Golden files pin the exact rendered bytes. Regenerate with:
//
//	go test ./internal/section -update

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestGolden_RenderFamily(t *testing.T) {
	records := []rel.Record{
		{Kind: rel.Spouse, Target: rel.Target{Name: "Evan"}, Gender: rel.GenderMale},
		{Kind: rel.Friend, Target: rel.Target{Name: "Bob"}},
		{Kind: rel.Parent, Target: rel.Target{Name: "Carol"}, Gender: rel.GenderFemale},
		{Kind: rel.Child, Target: rel.Target{Name: "Dana"}},
	}
	out := Render(records, DefaultHeading)
	newGoldie(t).Assert(t, "render_family", []byte(out))
}

func TestGolden_UpdateInsertion(t *testing.T) {
	doc := "# Alice\n\nSome biography text.\n\n## Notes\nMet at the conference.\n\n#contact\n"
	out := Update(doc, DefaultHeading, []rel.Record{
		{Kind: rel.Friend, Target: rel.Target{Name: "Bob"}},
	})
	newGoldie(t).Assert(t, "update_insertion", []byte(out))
}
