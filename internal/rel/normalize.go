package rel

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a display name for comparison: NFC
// normalization, Unicode case folding, and whitespace collapsing.
// "José  Silva" and "josé silva" normalize to the same key.
//
// The normalized form is used only for lookups and ordering; stored
// display names keep their original bytes.
//
// A cases.Caser is stateful, so a fresh one is created per call rather
// than shared.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	name = cases.Fold().String(name)
	return strings.Join(strings.Fields(name), " ")
}
