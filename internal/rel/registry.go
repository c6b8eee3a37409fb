package rel

import "strings"

// kindEntry describes one built-in kind: its complement (equal to the
// kind itself when symmetric), the neutral display noun, and the
// gendered nouns where the language has them.
type kindEntry struct {
	complement Kind
	neutral    string
	female     string
	male       string
}

// registry is the static table of built-in kinds. Kinds missing from
// this table are still usable; they complement to Related and display
// as their own name.
var registry = map[Kind]kindEntry{
	Parent:      {complement: Child, neutral: "Parent", female: "Mother", male: "Father"},
	Child:       {complement: Parent, neutral: "Child", female: "Daughter", male: "Son"},
	Sibling:     {complement: Sibling, neutral: "Sibling", female: "Sister", male: "Brother"},
	Spouse:      {complement: Spouse, neutral: "Spouse", female: "Wife", male: "Husband"},
	Partner:     {complement: Partner, neutral: "Partner"},
	Friend:      {complement: Friend, neutral: "Friend"},
	Colleague:   {complement: Colleague, neutral: "Colleague"},
	Relative:    {complement: Relative, neutral: "Relative"},
	Auncle:      {complement: Nibling, neutral: "Auncle", female: "Aunt", male: "Uncle"},
	Nibling:     {complement: Auncle, neutral: "Nibling", female: "Niece", male: "Nephew"},
	Grandparent: {complement: Grandchild, neutral: "Grandparent", female: "Grandmother", male: "Grandfather"},
	Grandchild:  {complement: Grandparent, neutral: "Grandchild", female: "Granddaughter", male: "Grandson"},
	Related:     {complement: Related, neutral: "Related"},
}

// alias is a reverse registry entry: one display term mapped back to
// its canonical kind and the gender the term implies.
type alias struct {
	kind   Kind
	gender Gender
}

// aliases maps lowercase display terms (gendered and neutral) back to
// their canonical kind. Built once from the registry.
var aliases = buildAliases()

func buildAliases() map[string]alias {
	out := make(map[string]alias)
	for kind, e := range registry {
		out[strings.ToLower(e.neutral)] = alias{kind, GenderUnknown}
		if e.female != "" {
			out[strings.ToLower(e.female)] = alias{kind, GenderFemale}
		}
		if e.male != "" {
			out[strings.ToLower(e.male)] = alias{kind, GenderMale}
		}
	}
	return out
}

// ComplementOf returns the kind required on the reverse edge. Unknown
// kinds fall back to the generic self-complementary Related kind, so a
// reverse edge always exists for any forward edge.
func ComplementOf(kind Kind) Kind {
	if e, ok := registry[kind]; ok {
		return e.complement
	}
	return Related
}

// IsSymmetric reports whether a kind is its own complement.
func IsSymmetric(kind Kind) bool {
	if e, ok := registry[kind]; ok {
		return e.complement == kind
	}
	return false
}

// GenderedAlias resolves a display term ("Mother", "friend", "Uncle")
// to its canonical kind and the gender the term implies. Matching is
// case-insensitive. Terms that name no registered kind or alias become
// their own lowercase kind with no implied gender, so user-defined
// relationship vocabularies survive a round trip.
func GenderedAlias(term string) (Kind, Gender) {
	key := strings.ToLower(strings.TrimSpace(term))
	if a, ok := aliases[key]; ok {
		return a.kind, a.gender
	}
	return Kind(key), GenderUnknown
}

// DisplayTerm returns the rendering label for a kind: the gendered
// noun when the gender is known and binary and the kind has one, else
// the neutral term. Unknown kinds render as their own name with the
// first letter upcased.
func DisplayTerm(kind Kind, gender Gender) string {
	e, ok := registry[kind]
	if !ok {
		return titleTerm(string(kind))
	}
	switch gender {
	case GenderFemale:
		if e.female != "" {
			return e.female
		}
	case GenderMale:
		if e.male != "" {
			return e.male
		}
	}
	return e.neutral
}

// titleTerm upcases the first byte of an ASCII term. Display terms for
// unknown kinds come from user text, which is ASCII in practice; a
// non-ASCII leading rune is left untouched.
func titleTerm(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
