package rel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetKey(t *testing.T) {
	resolved := Target{ID: "bob-1", Name: "Bob"}
	assert.Equal(t, "id:bob-1", resolved.Key(), "resolved targets dedup by id, not name")

	unresolved := Target{Name: "Carol King"}
	assert.Equal(t, "name:carol king", unresolved.Key())

	// Normalization makes case and spacing variants collide.
	assert.Equal(t, unresolved.Key(), Target{Name: "  CAROL   King "}.Key())
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "josé silva", NormalizeName("José  Silva"))
	assert.Equal(t, NormalizeName("JOSÉ SILVA"), NormalizeName("José Silva"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestSortRecords_Deterministic(t *testing.T) {
	a := Record{Kind: Friend, Target: Target{ID: "bob-1", Name: "Bob"}}
	b := Record{Kind: Friend, Target: Target{ID: "carol-1", Name: "Carol"}}
	c := Record{Kind: Child, Target: Target{Name: "Dan"}}

	forward := []Record{a, b, c}
	backward := []Record{b, c, a}
	SortRecords(forward)
	SortRecords(backward)

	assert.Equal(t, forward, backward, "ordering must not depend on insertion order")
	assert.Equal(t, Child, forward[0].Kind, "kinds sort before names")
	assert.Equal(t, "Bob", forward[1].Target.Name)
	assert.Equal(t, "Carol", forward[2].Target.Name)
}

func TestRecordKey_GenderIrrelevant(t *testing.T) {
	plain := Record{Kind: Parent, Target: Target{ID: "x"}}
	hinted := Record{Kind: Parent, Target: Target{ID: "x"}, Gender: GenderFemale}
	assert.Equal(t, plain.Key(), hinted.Key(), "gender is a display hint, never identity")
}
