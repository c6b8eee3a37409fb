package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kinship/internal/rel"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		key   string
		kind  rel.Kind
		index int
		ok    bool
	}{
		{"RELATED[friend]", rel.Friend, 0, true},
		{"RELATED[1:friend]", rel.Friend, 1, true},
		{"RELATED[12:parent]", rel.Parent, 12, true},
		{"RELATED[Friend]", rel.Friend, 0, true}, // kind is case-insensitive
		{"RELATED[friend", "", 0, false},         // unbalanced bracket
		{"RELATED[]", "", 0, false},              // empty kind
		{"RELATED[0:friend]", "", 0, false},      // index must be >= 1
		{"RELATED[-1:friend]", "", 0, false},
		{"RELATED[x:friend]", "", 0, false},
		{"RELATED[1:]", "", 0, false},
		{"RELATED[[friend]]", "", 0, false},
		{"UNRELATED[friend]", "", 0, false},
	}
	for _, tt := range tests {
		kind, index, ok := ParseKey(tt.key)
		assert.Equal(t, tt.ok, ok, "key %q", tt.key)
		if tt.ok {
			assert.Equal(t, tt.kind, kind, "key %q", tt.key)
			assert.Equal(t, tt.index, index, "key %q", tt.key)
		}
	}
}

func TestParse_ResolvedAndUnresolved(t *testing.T) {
	records, skipped := Parse(map[string]string{
		"RELATED[friend]": "id:bob-1",
		"RELATED[parent]": "name:Carol",
		"name":            "Alice", // unrelated keys ignored
	})
	require.Empty(t, skipped)
	require.Len(t, records, 2)

	assert.Equal(t, rel.Record{Kind: rel.Friend, Target: rel.Target{ID: "bob-1"}}, records[0])
	assert.Equal(t, rel.Record{Kind: rel.Parent, Target: rel.Target{Name: "Carol"}}, records[1])
}

func TestParse_URNValueAcceptedTransparently(t *testing.T) {
	records, skipped := Parse(map[string]string{
		"RELATED[spouse]": "urn:uuid:9bf3-77",
	})
	require.Empty(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, "9bf3-77", records[0].Target.ID)
	assert.True(t, records[0].Target.Resolved())
}

func TestParse_LegacyMixedIndexing(t *testing.T) {
	// Legacy unindexed key coexisting with indexed keys of the same kind.
	records, skipped := Parse(map[string]string{
		"RELATED[friend]":   "id:bob-1",
		"RELATED[1:friend]": "id:carol-1",
		"RELATED[2:friend]": "id:dave-1",
	})
	require.Empty(t, skipped)
	assert.Len(t, records, 3)
}

func TestParse_EmptyValueIsDeletion(t *testing.T) {
	records, skipped := Parse(map[string]string{
		"RELATED[friend]":  "",
		"RELATED[sibling]": "id:bob-1",
	})
	require.Empty(t, skipped)
	require.Len(t, records, 1)
	assert.Equal(t, rel.Sibling, records[0].Kind)
}

func TestParse_MalformedKeysSkippedIndividually(t *testing.T) {
	records, skipped := Parse(map[string]string{
		"RELATED[friend":    "id:bob-1",   // unbalanced
		"RELATED[0:friend]": "id:carol-1", // bad index
		"RELATED[friend]":   "bob-1",      // missing value prefix
		"RELATED[parent]":   "id:eve-1",   // fine
	})
	require.Len(t, records, 1, "one malformed field must not abort the rest")
	assert.Equal(t, rel.Parent, records[0].Kind)
	assert.Len(t, skipped, 3)
}

func TestParse_DuplicateRelationshipsCollapse(t *testing.T) {
	records, _ := Parse(map[string]string{
		"RELATED[friend]":   "id:bob-1",
		"RELATED[1:friend]": "id:bob-1",
	})
	assert.Len(t, records, 1, "same (kind, target) under two keys is one relationship")
}

func TestEncode_SingleRecordUnindexed(t *testing.T) {
	out := Encode([]rel.Record{
		{Kind: rel.Friend, Target: rel.Target{ID: "bob-1", Name: "Bob"}},
	})
	assert.Equal(t, map[string]string{"RELATED[friend]": "id:bob-1"}, out)
}

func TestEncode_NameSortedIndices(t *testing.T) {
	bob := rel.Record{Kind: rel.Friend, Target: rel.Target{ID: "bob-1", Name: "Bob"}}
	carol := rel.Record{Kind: rel.Friend, Target: rel.Target{ID: "carol-1", Name: "Carol"}}

	want := map[string]string{
		"RELATED[1:friend]": "id:bob-1",
		"RELATED[2:friend]": "id:carol-1",
	}

	// Either insertion order serializes identically.
	assert.Equal(t, want, Encode([]rel.Record{bob, carol}))
	assert.Equal(t, want, Encode([]rel.Record{carol, bob}))
}

func TestEncode_URNInputNormalizesToID(t *testing.T) {
	records, _ := Parse(map[string]string{"RELATED[spouse]": "urn:uuid:abc"})
	out := Encode(records)
	assert.Equal(t, map[string]string{"RELATED[spouse]": "id:abc"}, out)
}

func TestRoundTrip(t *testing.T) {
	in := map[string]string{
		"RELATED[1:friend]": "id:bob-1",
		"RELATED[2:friend]": "name:Carol",
		"RELATED[parent]":   "name:Dana",
		"RELATED[child]":    "id:eve-1",
	}
	records, skipped := Parse(in)
	require.Empty(t, skipped)

	out := Encode(records)
	roundTripped, skipped := Parse(out)
	require.Empty(t, skipped)

	assert.Equal(t, records, roundTripped, "encode then decode must preserve the record multiset")
}

func TestEncode_Deterministic(t *testing.T) {
	records, _ := Parse(map[string]string{
		"RELATED[1:friend]":  "id:bob-1",
		"RELATED[2:friend]":  "name:Carol",
		"RELATED[colleague]": "name:Ann",
	})
	first := Encode(records)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Encode(records))
	}
}
