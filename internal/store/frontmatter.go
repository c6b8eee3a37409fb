package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/kinship/internal/field"
)

const frontmatterFence = "---"

// Document is one contact document split into its frontmatter map and
// free-text body. The body is returned byte-exact; the frontmatter is
// a YAML mapping re-serialized deterministically (yaml.v3 sorts map
// keys), so rewriting an unchanged document is byte-stable after the
// first rewrite.
type Document struct {
	meta map[string]any
	Body string
}

// ParseDocument splits document text into frontmatter and body. A
// document without a frontmatter fence is all body. A frontmatter
// block that fails to parse as a YAML mapping is treated the same way,
// so one broken document never aborts a sync pass.
func ParseDocument(text string) Document {
	rest, ok := strings.CutPrefix(text, frontmatterFence+"\n")
	if !ok {
		return Document{meta: map[string]any{}, Body: text}
	}
	end := strings.Index(rest, "\n"+frontmatterFence+"\n")
	var raw, body string
	if end >= 0 {
		raw = rest[:end+1]
		body = rest[end+len(frontmatterFence)+2:]
	} else if trimmed, ok := strings.CutSuffix(rest, "\n"+frontmatterFence); ok {
		// Fence closes at end of document with no trailing newline.
		raw = trimmed + "\n"
		body = ""
	} else {
		return Document{meta: map[string]any{}, Body: text}
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil || meta == nil {
		return Document{meta: map[string]any{}, Body: text}
	}
	return Document{meta: meta, Body: body}
}

// Fields returns the flat string->string view of the frontmatter.
// Scalars are stringified; nested values are skipped since the engine
// only ever reads flat keys.
func (d Document) Fields() map[string]string {
	out := make(map[string]string, len(d.meta))
	for k, v := range d.meta {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		case bool, int, int64, uint64, float64:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	return out
}

// Field returns one scalar frontmatter value.
func (d Document) Field(key string) string {
	return d.Fields()[key]
}

// SetRelated replaces the document's entire relationship namespace:
// every existing RELATED key is dropped (including malformed and
// deletion-marker keys) and the given canonical set is written.
// Non-relationship keys are untouched.
func (d *Document) SetRelated(related map[string]string) {
	if d.meta == nil {
		d.meta = map[string]any{}
	}
	for k := range d.meta {
		if field.IsRelatedKey(k) {
			delete(d.meta, k)
		}
	}
	for k, v := range related {
		d.meta[k] = v
	}
}

// SetField sets one scalar frontmatter value.
func (d *Document) SetField(key, value string) {
	if d.meta == nil {
		d.meta = map[string]any{}
	}
	d.meta[key] = value
}

// Render reassembles the document. An empty frontmatter map renders no
// fence at all.
func (d Document) Render() string {
	if len(d.meta) == 0 {
		return d.Body
	}
	raw, err := yaml.Marshal(d.meta)
	if err != nil {
		// A string map cannot fail to marshal; keep the document intact
		// if it somehow does.
		return d.Body
	}
	return frontmatterFence + "\n" + string(raw) + frontmatterFence + "\n" + d.Body
}
