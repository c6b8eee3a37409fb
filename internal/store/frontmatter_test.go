package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_Basic(t *testing.T) {
	doc := ParseDocument("---\nname: Alice\nRELATED[friend]: id:bob-1\n---\n# Alice\nbody\n")
	assert.Equal(t, "# Alice\nbody\n", doc.Body)
	assert.Equal(t, "Alice", doc.Field("name"))
	assert.Equal(t, "id:bob-1", doc.Fields()["RELATED[friend]"])
}

func TestParseDocument_NoFrontmatter(t *testing.T) {
	doc := ParseDocument("# Alice\njust text\n")
	assert.Equal(t, "# Alice\njust text\n", doc.Body)
	assert.Empty(t, doc.Fields())
}

func TestParseDocument_BrokenYAMLIsAllBody(t *testing.T) {
	text := "---\n[not yaml\n---\nbody\n"
	doc := ParseDocument(text)
	assert.Equal(t, text, doc.Body, "a broken document must not lose content")
	assert.Empty(t, doc.Fields())
}

func TestParseDocument_ScalarStringification(t *testing.T) {
	doc := ParseDocument("---\nage: 40\nvip: true\nnickname:\n---\nx")
	fields := doc.Fields()
	assert.Equal(t, "40", fields["age"])
	assert.Equal(t, "true", fields["vip"])
	assert.Equal(t, "", fields["nickname"])
}

func TestSetRelated_ReplacesNamespace(t *testing.T) {
	doc := ParseDocument("---\nname: Alice\nRELATED[friend]: id:old-1\n\"RELATED[broken\": x\n---\nbody")
	doc.SetRelated(map[string]string{"RELATED[parent]": "name:Carol"})

	fields := doc.Fields()
	assert.Equal(t, "name:Carol", fields["RELATED[parent]"])
	assert.NotContains(t, fields, "RELATED[friend]")
	assert.NotContains(t, fields, "RELATED[broken")
	assert.Equal(t, "Alice", fields["name"], "non-relationship keys are untouched")
}

func TestRender_RoundTripStable(t *testing.T) {
	doc := ParseDocument("---\nname: Alice\nRELATED[friend]: id:bob-1\n---\nbody text\n")
	once := doc.Render()
	twice := ParseDocument(once).Render()
	assert.Equal(t, once, twice, "render must be a fixed point after the first rewrite")

	reparsed := ParseDocument(once)
	assert.Equal(t, doc.Body, reparsed.Body)
	assert.Equal(t, doc.Fields(), reparsed.Fields())
}

func TestRender_EmptyMetaHasNoFence(t *testing.T) {
	doc := ParseDocument("plain body\n")
	assert.Equal(t, "plain body\n", doc.Render())
}

func TestRender_Deterministic(t *testing.T) {
	var doc Document
	doc.SetField("zeta", "1")
	doc.SetField("alpha", "2")
	doc.SetRelated(map[string]string{
		"RELATED[1:friend]": "id:bob-1",
		"RELATED[2:friend]": "id:carol-1",
	})
	doc.Body = "body\n"

	first := doc.Render()
	for i := 0; i < 20; i++ {
		require.Equal(t, first, doc.Render())
	}
}
