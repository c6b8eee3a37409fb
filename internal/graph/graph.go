package graph

import (
	"sort"
	"strings"
	"sync"

	"github.com/roach88/kinship/internal/rel"
)

// phantomPrefix namespaces phantom node ids so they can never collide
// with real entity ids.
const phantomPrefix = "name:"

// Node is one graph vertex: a real contact entity or a phantom
// placeholder for a target that does not resolve yet.
type Node struct {
	ID     string
	Name   string
	Exists bool
	Gender rel.Gender
}

// Phantom reports whether the node is an unresolved placeholder.
func (n Node) Phantom() bool {
	return !n.Exists
}

// edgeKey identifies one directed typed edge.
type edgeKey struct {
	source string
	kind   rel.Kind
	target string
}

// Graph is the in-memory relationship graph. It is safe for use from
// multiple goroutines, though the sync protocol keeps mutation
// effectively single-threaded.
type Graph struct {
	mu     sync.Mutex
	nodes  map[string]*Node
	byName map[string]string // normalized display name -> node id
	edges  map[edgeKey]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:  make(map[string]*Node),
		byName: make(map[string]string),
		edges:  make(map[edgeKey]bool),
	}
}

// PhantomID returns the node id a phantom with the given display name
// would use.
func PhantomID(name string) string {
	return phantomPrefix + rel.NormalizeName(name)
}

// IsPhantomID reports whether an id belongs to the phantom namespace.
func IsPhantomID(id string) bool {
	return strings.HasPrefix(id, phantomPrefix)
}

// AddNode upserts a real node. Idempotent: re-adding an identical node
// returns false. A non-empty name updates the name index; an empty
// name never erases a known one.
func (g *Graph) AddNode(id, name string, exists bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.upsertNode(id, name, exists)
}

func (g *Graph) upsertNode(id, name string, exists bool) bool {
	if id == "" {
		return false
	}
	n, ok := g.nodes[id]
	if !ok {
		n = &Node{ID: id, Name: name, Exists: exists}
		g.nodes[id] = n
		if name != "" {
			g.byName[rel.NormalizeName(name)] = id
		}
		return true
	}

	changed := false
	if name != "" && n.Name != name {
		g.unindexName(n.Name, id)
		n.Name = name
		g.byName[rel.NormalizeName(name)] = id
		changed = true
	}
	if n.Exists != exists {
		n.Exists = exists
		changed = true
	}
	return changed
}

// NoteGender records a display-gender hint for a node. Hints only ever
// fill in or change a known gender; they never affect graph structure.
func (g *Graph) NoteGender(id string, gender rel.Gender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if gender == rel.GenderUnknown {
		return
	}
	if n, ok := g.nodes[id]; ok {
		n.Gender = gender
	}
}

// NodeByID returns a copy of the node with the given id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// ResolveName resolves a display name to a real node id through the
// graph-owned name index. Phantoms do not count as resolution targets.
func (g *Graph) ResolveName(name string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolveName(name)
}

func (g *Graph) resolveName(name string) (string, bool) {
	id, ok := g.byName[rel.NormalizeName(name)]
	if !ok {
		return "", false
	}
	if n, ok := g.nodes[id]; !ok || n.Phantom() {
		return "", false
	}
	return id, true
}

// resolveTarget maps a record target to a node id, creating a phantom
// node when a name-based target does not resolve. Returns the node id.
func (g *Graph) resolveTarget(target string, nameBased bool) string {
	if !nameBased {
		if _, ok := g.nodes[target]; !ok {
			// First mention of an id we have not listed yet. The name
			// arrives later, via AddNode from the store.
			g.nodes[target] = &Node{ID: target, Exists: true}
		}
		return target
	}
	if id, ok := g.resolveName(target); ok {
		return id
	}
	id := PhantomID(target)
	if _, ok := g.nodes[id]; !ok {
		g.nodes[id] = &Node{ID: id, Name: target, Exists: false}
	}
	return id
}

// AddEdge adds one directed typed edge. Name-based targets that
// already resolve to a real entity are rewritten to resolved edges;
// otherwise a phantom target node is created or reused. Returns false
// for self-loops and for edges that already exist.
func (g *Graph) AddEdge(source, target string, kind rel.Kind, nameBased bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addEdge(source, target, kind, nameBased)
}

func (g *Graph) addEdge(source, target string, kind rel.Kind, nameBased bool) bool {
	if source == "" || target == "" {
		return false
	}
	if _, ok := g.nodes[source]; !ok {
		g.nodes[source] = &Node{ID: source, Exists: true}
	}
	targetID := g.resolveTarget(target, nameBased)
	if targetID == source {
		return false
	}
	key := edgeKey{source: source, kind: kind, target: targetID}
	if g.edges[key] {
		return false
	}
	g.edges[key] = true
	return true
}

// AddBidirectional adds the primary edge and the reverse edge with the
// complement kind (the kind itself when symmetric). Returns true if
// either direction was newly added.
func (g *Graph) AddBidirectional(source, target string, kind rel.Kind, nameBased bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	added := g.addEdge(source, target, kind, nameBased)

	// The reverse edge originates at whatever node the primary edge
	// landed on, phantom or real.
	targetID := g.resolveTarget(target, nameBased)
	if targetID != source {
		if g.addEdge(targetID, source, rel.ComplementOf(kind), false) {
			added = true
		}
	}
	return added
}

// HasEdge reports whether the exact directed edge exists. The target
// may be a real id or a phantom id.
func (g *Graph) HasEdge(source string, kind rel.Kind, target string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges[edgeKey{source: source, kind: kind, target: target}]
}

// RemoveEdge removes one directed edge and prunes the target node if
// it is a phantom left at degree zero. Returns false if the edge did
// not exist.
func (g *Graph) RemoveEdge(source, target string, kind rel.Kind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.removeEdge(source, target, kind)
}

func (g *Graph) removeEdge(source, target string, kind rel.Kind) bool {
	key := edgeKey{source: source, kind: kind, target: target}
	if !g.edges[key] {
		return false
	}
	delete(g.edges, key)
	g.pruneIfOrphanPhantom(target)
	g.pruneIfOrphanPhantom(source)
	return true
}

// RemoveBidirectional removes the primary edge and its complement
// mirror. Returns true if either direction was removed.
func (g *Graph) RemoveBidirectional(source, target string, kind rel.Kind) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := g.removeEdge(source, target, kind)
	if g.removeEdge(target, source, rel.ComplementOf(kind)) {
		removed = true
	}
	return removed
}

// UpgradeName atomically rewrites every edge incident to the phantom
// node for name so it references realID instead, preserving kind and
// direction, then deletes the phantom. Edges that would become
// self-loops are dropped rather than rewritten. Returns false when no
// such phantom exists.
func (g *Graph) UpgradeName(name, realID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	phantomID := PhantomID(name)
	phantom, ok := g.nodes[phantomID]
	if !ok || !phantom.Phantom() || realID == "" {
		return false
	}

	g.upsertNode(realID, phantom.Name, true)
	if real := g.nodes[realID]; real.Gender == rel.GenderUnknown {
		// Gender hints noted against the phantom survive the upgrade.
		real.Gender = phantom.Gender
	}

	var incident []edgeKey
	for key := range g.edges {
		if key.source == phantomID || key.target == phantomID {
			incident = append(incident, key)
		}
	}
	for _, key := range incident {
		delete(g.edges, key)
		rewritten := key
		if rewritten.source == phantomID {
			rewritten.source = realID
		}
		if rewritten.target == phantomID {
			rewritten.target = realID
		}
		if rewritten.source == rewritten.target {
			continue
		}
		g.edges[rewritten] = true
	}

	g.unindexName(phantom.Name, phantomID)
	delete(g.nodes, phantomID)
	return true
}

// RecordsFrom returns the entity's outgoing relationships as records
// in canonical order. Resolved targets carry both id and display name;
// phantom targets are name-only.
func (g *Graph) RecordsFrom(id string) []rel.Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	var records []rel.Record
	for key := range g.edges {
		if key.source != id {
			continue
		}
		target, ok := g.nodes[key.target]
		if !ok {
			continue
		}
		r := rel.Record{Kind: key.kind, Gender: target.Gender}
		if target.Phantom() {
			r.Target = rel.Target{Name: target.Name}
		} else {
			r.Target = rel.Target{ID: target.ID, Name: target.Name}
		}
		records = append(records, r)
	}
	rel.SortRecords(records)
	return records
}

// Neighbors returns the ids of every node with an edge to or from the
// given node, in either direction, sorted for deterministic iteration.
func (g *Graph) Neighbors(id string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[string]bool)
	for key := range g.edges {
		if key.source == id {
			seen[key.target] = true
		}
		if key.target == id {
			seen[key.source] = true
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Phantoms returns every phantom node, ordered by id for deterministic
// iteration.
func (g *Graph) Phantoms() []Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []Node
	for _, n := range g.nodes {
		if n.Phantom() {
			out = append(out, *n)
		}
	}
	sortNodes(out)
	return out
}

// degree counts edges incident to a node in either direction.
func (g *Graph) degree(id string) int {
	count := 0
	for key := range g.edges {
		if key.source == id || key.target == id {
			count++
		}
	}
	return count
}

// pruneIfOrphanPhantom deletes a phantom node whose degree dropped to
// zero. Real nodes are never pruned.
func (g *Graph) pruneIfOrphanPhantom(id string) {
	n, ok := g.nodes[id]
	if !ok || !n.Phantom() {
		return
	}
	if g.degree(id) > 0 {
		return
	}
	g.unindexName(n.Name, id)
	delete(g.nodes, id)
}

// unindexName removes a name index entry only when it still points at
// the given node; a real node may have since claimed the same name.
func (g *Graph) unindexName(name, id string) {
	if name == "" {
		return
	}
	key := rel.NormalizeName(name)
	if g.byName[key] == id {
		delete(g.byName, key)
	}
}

func sortNodes(nodes []Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}
