// Package rel provides the foundational relationship types for kinship.
//
// This package contains type definitions and the static kind registry.
// All other internal packages import rel; rel imports nothing internal.
// This keeps it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Kinds are plain lowercase strings; unknown kinds are legal and
//     complement to the generic self-complementary "related" kind
//   - Display names are NFC-normalized and case-folded at every
//     comparison boundary, never stored mutated
//   - Gender is a display hint only; it never affects graph semantics
package rel
