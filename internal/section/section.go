// Package section locates, parses, and rewrites the human-readable
// relationship list inside a contact document's free text.
//
// The section is a markdown heading (any level 1-6, matched
// case-insensitively on the heading word) followed by lines of the
// form:
//
//	- <Term> [[<Name>]]
//
// Everything outside the heading-to-next-heading range is preserved
// byte-for-byte; the block itself is owned by the renderer and is
// rewritten canonically on every update.
package section

import (
	"regexp"
	"strings"

	"github.com/roach88/kinship/internal/rel"
)

// DefaultHeading is the heading word the renderer looks for.
const DefaultHeading = "related"

var (
	headingRe = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)[ \t]*$`)
	itemRe    = regexp.MustCompile(`^-[ \t]+(.+?)[ \t]+\[\[(.+?)\]\][ \t]*$`)
	tagLineRe = regexp.MustCompile(`^#[^# \t]\S*([ \t]+#\S+)*[ \t]*$`)
)

// block is a located section: line indexes into the split document.
// Lines[start] is the heading line; the block body runs to end
// (exclusive), which is the next heading of any level or end of
// document.
type block struct {
	start int
	end   int
}

// locate finds the relationship section in the given lines. Matching
// is case-insensitive on the heading word and accepts any heading
// level.
func locate(lines []string, heading string) (block, bool) {
	want := strings.ToLower(strings.TrimSpace(heading))
	for i, line := range lines {
		m := headingRe.FindStringSubmatch(line)
		if m == nil || !strings.EqualFold(strings.TrimSpace(m[2]), want) {
			continue
		}
		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if headingRe.MatchString(lines[j]) {
				end = j
				break
			}
		}
		return block{start: i, end: end}, true
	}
	return block{}, false
}

// Exists reports whether the document contains the relationship
// section heading at all. An absent section is not the same thing as
// an empty one: absence means the user never listed relationships
// here, not that they removed them.
func Exists(doc, heading string) bool {
	_, found := locate(strings.Split(doc, "\n"), heading)
	return found
}

// Parse extracts relationship records from the document's section.
// Lines that do not match the item form are silently ignored; they are
// user prose, not errors. A missing section parses as an empty set.
//
// The wiki link may carry an alias ("[[Bob Jones|Bob]]"); the link
// target names the contact, so the alias is dropped.
func Parse(doc, heading string) []rel.Record {
	lines := strings.Split(doc, "\n")
	b, found := locate(lines, heading)
	if !found {
		return nil
	}

	var records []rel.Record
	seen := make(map[string]bool)
	for _, line := range lines[b.start+1 : b.end] {
		m := itemRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[2]
		if i := strings.IndexByte(name, '|'); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		kind, gender := rel.GenderedAlias(m[1])
		record := rel.Record{Kind: kind, Target: rel.Target{Name: name}, Gender: gender}
		if seen[record.Key()] {
			continue
		}
		seen[record.Key()] = true
		records = append(records, record)
	}
	return records
}

// renderItems produces the canonical item lines: one per record,
// sorted by (kind, target display name), labeled via the gendered
// display term.
func renderItems(records []rel.Record) []string {
	sorted := make([]rel.Record, len(records))
	copy(sorted, records)
	rel.SortRecords(sorted)

	items := make([]string, 0, len(sorted))
	for _, r := range sorted {
		items = append(items, "- "+rel.DisplayTerm(r.Kind, r.Gender)+" [["+r.Target.SortName()+"]]")
	}
	return items
}

// Render returns the canonical section text (heading plus items) with
// a trailing newline. Rendering the same record set twice is
// byte-identical.
func Render(records []rel.Record, heading string) string {
	lines := append([]string{defaultHeadingLine(heading)}, renderItems(records)...)
	return strings.Join(lines, "\n") + "\n"
}

// Update rewrites the document's relationship section to reflect
// records, touching nothing outside the heading-to-next-heading range.
//
// When the section exists, its heading line is kept verbatim (level
// and casing are the user's) and the body is replaced. An empty record
// set keeps the heading with an empty body so the anchor point for
// future edits is never lost.
//
// When the section is absent it is inserted: immediately after a
// conventional "notes" section if present, else immediately before a
// trailing tag line, else appended at document end.
func Update(doc, heading string, records []rel.Record) string {
	lines := strings.Split(doc, "\n")
	items := renderItems(records)

	if b, found := locate(lines, heading); found {
		replacement := append([]string{lines[b.start]}, items...)
		// One empty line terminates the block: it separates the list
		// from a following heading and preserves the final newline when
		// the section ends the document.
		replacement = append(replacement, "")
		out := make([]string, 0, len(lines)-(b.end-b.start)+len(replacement))
		out = append(out, lines[:b.start]...)
		out = append(out, replacement...)
		out = append(out, lines[b.end:]...)
		return strings.Join(out, "\n")
	}

	newBlock := append([]string{defaultHeadingLine(heading)}, items...)

	at := -1
	tagAt, hasTag := trailingTagLine(lines)
	if b, found := locate(lines, "notes"); found {
		at = b.end
		// A notes block that runs to end of document swallows the
		// trailing tag line; the tag line still wins as the boundary.
		if hasTag && tagAt > b.start && tagAt < at {
			at = tagAt
		}
	} else if hasTag {
		at = tagAt
	}

	if at >= 0 {
		out := make([]string, 0, len(lines)+len(newBlock)+1)
		out = append(out, lines[:at]...)
		out = append(out, newBlock...)
		out = append(out, "")
		out = append(out, lines[at:]...)
		return strings.Join(out, "\n")
	}

	if !strings.HasSuffix(doc, "\n") && doc != "" {
		doc += "\n"
	}
	return doc + strings.Join(newBlock, "\n") + "\n"
}

// defaultHeadingLine builds the heading line used when inserting a new
// section: level 2, first letter upcased.
func defaultHeadingLine(heading string) string {
	heading = strings.TrimSpace(heading)
	if heading == "" {
		heading = DefaultHeading
	}
	if heading[0] >= 'a' && heading[0] <= 'z' {
		heading = string(heading[0]-'a'+'A') + heading[1:]
	}
	return "## " + heading
}

// trailingTagLine finds the last non-empty line if it is a tag line
// like "#contact" or "#people #family". Returns its index.
func trailingTagLine(lines []string) (int, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if tagLineRe.MatchString(lines[i]) {
			return i, true
		}
		return 0, false
	}
	return 0, false
}
