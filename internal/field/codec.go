package field

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/kinship/internal/rel"
)

const (
	keyPrefix = "RELATED["
	keySuffix = "]"

	valueIDPrefix   = "id:"
	valueURNPrefix  = "urn:uuid:"
	valueNamePrefix = "name:"
)

// IsRelatedKey reports whether a frontmatter key belongs to the
// relationship namespace, well-formed or not. The caller uses this to
// decide which keys the codec owns when rewriting a document.
func IsRelatedKey(key string) bool {
	return strings.HasPrefix(key, keyPrefix)
}

// ParseKey splits a relationship key into its kind and index. The
// index is 0 for the unindexed form. ok is false for malformed keys:
// missing bracket, empty kind, or a non-positive or non-numeric index.
func ParseKey(key string) (kind rel.Kind, index int, ok bool) {
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, keySuffix) {
		return "", 0, false
	}
	inner := key[len(keyPrefix) : len(key)-len(keySuffix)]
	if inner == "" || strings.ContainsAny(inner, "[]") {
		return "", 0, false
	}

	if i := strings.IndexByte(inner, ':'); i >= 0 {
		n, err := strconv.Atoi(inner[:i])
		if err != nil || n < 1 || inner[i+1:] == "" {
			return "", 0, false
		}
		return rel.Kind(strings.ToLower(inner[i+1:])), n, true
	}
	return rel.Kind(strings.ToLower(inner)), 0, true
}

// parseValue decodes a relationship value into a target.
func parseValue(value string) (rel.Target, bool) {
	switch {
	case strings.HasPrefix(value, valueIDPrefix):
		id := value[len(valueIDPrefix):]
		if id == "" {
			return rel.Target{}, false
		}
		return rel.Target{ID: id}, true
	case strings.HasPrefix(value, valueURNPrefix):
		id := value[len(valueURNPrefix):]
		if id == "" {
			return rel.Target{}, false
		}
		return rel.Target{ID: id}, true
	case strings.HasPrefix(value, valueNamePrefix):
		name := value[len(valueNamePrefix):]
		if strings.TrimSpace(name) == "" {
			return rel.Target{}, false
		}
		return rel.Target{Name: name}, true
	default:
		return rel.Target{}, false
	}
}

// Parse extracts relationship records from a flat frontmatter map.
// Non-relationship keys are ignored. Empty values are deletion markers
// and parse as absent. Malformed keys or values are skipped and
// returned in skipped so the caller can log them; they never abort the
// rest of the parse.
//
// Records are deduplicated by (kind, target) and returned in the
// canonical sorted order, so parsing the same map twice yields the
// same slice regardless of map iteration order.
func Parse(fields map[string]string) (records []rel.Record, skipped []string) {
	seen := make(map[string]bool)
	for key, value := range fields {
		if !IsRelatedKey(key) {
			continue
		}
		kind, _, ok := ParseKey(key)
		if !ok {
			skipped = append(skipped, key)
			continue
		}
		if value == "" {
			// Deletion marker: the key exists but the relationship is gone.
			continue
		}
		target, ok := parseValue(value)
		if !ok {
			skipped = append(skipped, key)
			continue
		}
		record := rel.Record{Kind: kind, Target: target}
		if seen[record.Key()] {
			continue
		}
		seen[record.Key()] = true
		records = append(records, record)
	}
	rel.SortRecords(records)
	sort.Strings(skipped)
	return records, skipped
}

// Encode serializes records into canonical relationship keys. The
// input order is irrelevant: records are grouped by kind and sorted by
// target display name, then indices are assigned in that order. A kind
// with a single record gets the unindexed key. Encoding the same
// abstract set twice always yields an identical map.
//
// Deleted relationships are simply absent: Encode never emits empty
// values or stale indices.
func Encode(records []rel.Record) map[string]string {
	sorted := make([]rel.Record, len(records))
	copy(sorted, records)
	rel.SortRecords(sorted)

	perKind := make(map[rel.Kind]int)
	for _, r := range sorted {
		perKind[r.Kind]++
	}

	out := make(map[string]string, len(sorted))
	index := make(map[rel.Kind]int)
	for _, r := range sorted {
		var key string
		if perKind[r.Kind] == 1 {
			key = fmt.Sprintf("%s%s%s", keyPrefix, r.Kind, keySuffix)
		} else {
			index[r.Kind]++
			key = fmt.Sprintf("%s%d:%s%s", keyPrefix, index[r.Kind], r.Kind, keySuffix)
		}
		out[key] = encodeValue(r.Target)
	}
	return out
}

// encodeValue serializes a target. Resolved targets always encode in
// the plain id form, even when they were parsed from the URN form.
func encodeValue(t rel.Target) string {
	if t.Resolved() {
		return valueIDPrefix + t.ID
	}
	return valueNamePrefix + t.Name
}
