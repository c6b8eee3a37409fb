// Package graph holds the in-memory relationship graph: a directed
// multigraph of contact entities and typed edges.
//
// Targets that cannot be resolved to a known entity become phantom
// nodes keyed by normalized display name. A phantom lives only while
// it has at least one incident edge; it is pruned at degree zero and
// replaced wholesale when its name is upgraded to a real entity id.
//
// The name and id indexes are owned by the graph and shared by
// reference with every component that needs resolution; there is no
// ambient global cache.
//
// All operations return a boolean success flag and never panic or
// error on expected conditions (duplicate edges, unknown nodes,
// attempted self-loops). Validate reports consistency issues without
// repairing them: silent repair of relationship data risks destructive
// edits.
package graph
