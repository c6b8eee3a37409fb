package rel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplementOf_Asymmetric(t *testing.T) {
	assert.Equal(t, Child, ComplementOf(Parent))
	assert.Equal(t, Parent, ComplementOf(Child))
	assert.Equal(t, Nibling, ComplementOf(Auncle))
	assert.Equal(t, Grandparent, ComplementOf(Grandchild))
}

func TestComplementOf_Symmetric(t *testing.T) {
	for _, kind := range []Kind{Sibling, Spouse, Partner, Friend, Colleague, Relative, Related} {
		assert.Equal(t, kind, ComplementOf(kind), "symmetric kind %s must be its own complement", kind)
	}
}

func TestComplementOf_UnknownFallsBackToRelated(t *testing.T) {
	assert.Equal(t, Related, ComplementOf(Kind("mentor")))
}

func TestIsSymmetric(t *testing.T) {
	assert.True(t, IsSymmetric(Friend))
	assert.True(t, IsSymmetric(Related))
	assert.False(t, IsSymmetric(Parent))
	assert.False(t, IsSymmetric(Kind("mentor")), "unknown kinds are asymmetric (they complement to related)")
}

func TestGenderedAlias_GenderedTerms(t *testing.T) {
	tests := []struct {
		term   string
		kind   Kind
		gender Gender
	}{
		{"mother", Parent, GenderFemale},
		{"Father", Parent, GenderMale},
		{"daughter", Child, GenderFemale},
		{"SON", Child, GenderMale},
		{"sister", Sibling, GenderFemale},
		{"Brother", Sibling, GenderMale},
		{"wife", Spouse, GenderFemale},
		{"husband", Spouse, GenderMale},
		{"aunt", Auncle, GenderFemale},
		{"uncle", Auncle, GenderMale},
		{"niece", Nibling, GenderFemale},
		{"nephew", Nibling, GenderMale},
		{"grandmother", Grandparent, GenderFemale},
		{"grandson", Grandchild, GenderMale},
	}
	for _, tt := range tests {
		kind, gender := GenderedAlias(tt.term)
		assert.Equal(t, tt.kind, kind, "term %q", tt.term)
		assert.Equal(t, tt.gender, gender, "term %q", tt.term)
	}
}

func TestGenderedAlias_NeutralTerms(t *testing.T) {
	kind, gender := GenderedAlias("Friend")
	assert.Equal(t, Friend, kind)
	assert.Equal(t, GenderUnknown, gender)

	kind, gender = GenderedAlias("parent")
	assert.Equal(t, Parent, kind)
	assert.Equal(t, GenderUnknown, gender)
}

func TestGenderedAlias_UnknownTermBecomesOwnKind(t *testing.T) {
	kind, gender := GenderedAlias("Mentor")
	assert.Equal(t, Kind("mentor"), kind)
	assert.Equal(t, GenderUnknown, gender)
}

func TestDisplayTerm(t *testing.T) {
	assert.Equal(t, "Mother", DisplayTerm(Parent, GenderFemale))
	assert.Equal(t, "Father", DisplayTerm(Parent, GenderMale))
	assert.Equal(t, "Parent", DisplayTerm(Parent, GenderUnknown))

	// Kinds without gendered nouns always render neutrally.
	assert.Equal(t, "Friend", DisplayTerm(Friend, GenderFemale))

	// Unknown kinds render as themselves, upcased.
	assert.Equal(t, "Mentor", DisplayTerm(Kind("mentor"), GenderUnknown))
}

func TestAliasRoundTrip(t *testing.T) {
	// Every display term the registry can emit must parse back to the
	// kind and gender that produced it.
	for kind := range registry {
		for _, gender := range []Gender{GenderUnknown, GenderFemale, GenderMale} {
			term := DisplayTerm(kind, gender)
			gotKind, gotGender := GenderedAlias(term)
			assert.Equal(t, kind, gotKind, "term %q", term)
			if term != DisplayTerm(kind, GenderUnknown) {
				assert.Equal(t, gender, gotGender, "term %q", term)
			}
		}
	}
}
