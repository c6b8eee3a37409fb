// Package engine implements the relationship sync orchestrator.
//
// The engine reconciles three views of the same relationship set: the
// in-memory graph, the RELATED[...] frontmatter fields of each contact
// document, and the rendered markdown section inside each document
// body. An edit to any one document flows through the graph and back
// out to every affected document.
//
// ARCHITECTURE:
//
// Single-writer propagation:
// Graph mutation and document rewriting happen in the calling
// goroutine, one entity at a time. The hazard the design defends
// against is re-entrant cascades (editing A updates B, whose change
// handling re-triggers A), not hardware races. Per-entity locks with a
// bounded lifetime cut those cascades to one hop.
//
// Sync flow:
//  1. UserEditSync parses the edited document, diffs section against
//     fields, and applies the difference to the graph.
//  2. The edited entity's own fields are regenerated from the graph.
//     Its section is left alone so an in-progress edit keeps its line
//     ordering.
//  3. Every other entity whose edge set changed is locked, rewritten
//     (fields first, then section), and unlocked.
//
// Failures during propagation are local: a broken document is logged
// and skipped, never aborting the rest of the pass. There are no
// retries; the bounded lock lifetime is the only self-healing
// mechanism.
package engine
