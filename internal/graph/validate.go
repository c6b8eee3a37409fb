package graph

import (
	"fmt"
	"sort"

	"github.com/roach88/kinship/internal/rel"
)

// IssueCode categorizes a consistency violation.
type IssueCode string

const (
	// IssueSelfLoop reports an edge from a node to itself.
	IssueSelfLoop IssueCode = "SELF_LOOP"

	// IssueOrphanPhantom reports a phantom node with no incident edges.
	IssueOrphanPhantom IssueCode = "ORPHAN_PHANTOM"

	// IssueMissingComplement reports an edge of a known asymmetric kind
	// whose complement edge is absent.
	IssueMissingComplement IssueCode = "MISSING_COMPLEMENT"
)

// Issue is one diagnostic finding. Issues are reported, never
// auto-repaired: relationship data belongs to the user, and a silent
// "fix" can destroy it.
type Issue struct {
	Code    IssueCode
	Source  string
	Target  string
	Kind    rel.Kind
	Message string
}

// Validate scans the graph for self-loops, orphaned phantoms, and
// missing complement edges. The result is sorted for stable output.
func (g *Graph) Validate() []Issue {
	g.mu.Lock()
	defer g.mu.Unlock()

	var issues []Issue

	for key := range g.edges {
		if key.source == key.target {
			issues = append(issues, Issue{
				Code:    IssueSelfLoop,
				Source:  key.source,
				Target:  key.target,
				Kind:    key.kind,
				Message: fmt.Sprintf("%s has a %s relationship to itself", key.source, key.kind),
			})
			continue
		}
		complement := rel.ComplementOf(key.kind)
		mirror := edgeKey{source: key.target, kind: complement, target: key.source}
		if !g.edges[mirror] {
			issues = append(issues, Issue{
				Code:   IssueMissingComplement,
				Source: key.source,
				Target: key.target,
				Kind:   key.kind,
				Message: fmt.Sprintf("%s -[%s]-> %s has no %s edge back",
					key.source, key.kind, key.target, complement),
			})
		}
	}

	for id, n := range g.nodes {
		if n.Phantom() && g.degree(id) == 0 {
			issues = append(issues, Issue{
				Code:    IssueOrphanPhantom,
				Source:  id,
				Message: fmt.Sprintf("phantom %q has no relationships", n.Name),
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Target < b.Target
	})
	return issues
}
