package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/kinship/internal/field"
	"github.com/roach88/kinship/internal/graph"
	"github.com/roach88/kinship/internal/rel"
	"github.com/roach88/kinship/internal/section"
	"github.com/roach88/kinship/internal/store"
)

// Engine is the sync orchestrator. It owns the per-entity lock map and
// drives every reconciliation between documents and the graph.
//
// Thread-safety model:
//   - The graph and lock map are internally synchronized.
//   - Sync operations may be called from any goroutine; the locks make
//     concurrent syncs of the same entity drop rather than interleave.
type Engine struct {
	store  store.EntityStore
	graph  *graph.Graph
	locks  *LockMap
	tokens OpTokenGenerator
	log    *zap.Logger

	heading     string
	maxSteps    int
	lockTimeout time.Duration
	now         func() time.Time
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithMaxSteps sets the propagation step budget per sync operation.
func WithMaxSteps(maxSteps int) Option {
	return func(e *Engine) { e.maxSteps = maxSteps }
}

// WithHeading sets the relationship section heading word.
func WithHeading(heading string) Option {
	return func(e *Engine) { e.heading = heading }
}

// WithLockTimeout sets the bounded lock lifetime.
func WithLockTimeout(d time.Duration) Option {
	return func(e *Engine) { e.lockTimeout = d }
}

// WithClock injects the time source used for lock expiry. Tests pass a
// deterministic clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTokenGenerator injects the op token generator. Tests pass a
// FixedGenerator for stable log output.
func WithTokenGenerator(gen OpTokenGenerator) Option {
	return func(e *Engine) { e.tokens = gen }
}

// New creates an Engine over the given store and graph. A nil logger
// disables logging.
func New(s store.EntityStore, g *graph.Graph, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:       s,
		graph:       g,
		tokens:      UUIDv7Generator{},
		log:         logger,
		heading:     section.DefaultHeading,
		maxSteps:    DefaultMaxSteps,
		lockTimeout: DefaultLockTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	e.locks = NewLockMap(e.lockTimeout, e.now)
	return e
}

// Graph returns the engine's relationship graph, for diagnostics.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// HeldLocks returns the ids of currently locked entities, sorted.
func (e *Engine) HeldLocks() []string {
	return e.locks.HeldIDs()
}

// ClearLocks force-releases every lock. Operator recovery only.
func (e *Engine) ClearLocks() int {
	n := e.locks.ClearAll()
	if n > 0 {
		e.log.Warn("cleared all locks", zap.Int("count", n))
	}
	return n
}

// Rebuild loads the graph from the store: one node per entity, then
// one directed edge per structured field record. Edges are added
// exactly as stored, without complement mirroring, so Validate can
// report documents whose mirrors have drifted.
//
// Per-entity read or parse failures are logged and skipped.
func (e *Engine) Rebuild(ctx context.Context) error {
	refs, err := e.store.ListEntities(ctx)
	if err != nil {
		return err
	}

	// Nodes first, so name-based targets resolve no matter which
	// document mentions them first.
	for _, ref := range refs {
		e.graph.AddNode(ref.ID, ref.DisplayName, true)
	}

	for _, ref := range refs {
		text, err := e.store.ReadText(ctx, ref)
		if err != nil {
			e.log.Warn("rebuild: skipping unreadable entity",
				zap.String("entity", ref.ID), zap.Error(err))
			continue
		}
		doc := store.ParseDocument(text)

		records, skipped := field.Parse(doc.Fields())
		for _, key := range skipped {
			e.log.Warn("rebuild: skipping malformed relationship field",
				zap.String("entity", ref.ID), zap.String("key", key))
		}
		for _, r := range records {
			e.graph.AddEdge(ref.ID, targetRef(r.Target), r.Kind, !r.Target.Resolved())
		}
		e.noteGenderHints(doc.Body)
	}
	return nil
}

// noteGenderHints applies display-gender hints from a document's
// rendered section to the graph. Hints never change graph structure.
func (e *Engine) noteGenderHints(body string) {
	for _, r := range section.Parse(body, e.heading) {
		if r.Gender == rel.GenderUnknown {
			continue
		}
		e.graph.NoteGender(e.targetNodeID(r.Target), r.Gender)
	}
}

// targetRef returns the raw target reference for graph edge calls: the
// id for resolved targets, the display name otherwise.
func targetRef(t rel.Target) string {
	if t.Resolved() {
		return t.ID
	}
	return t.Name
}

// targetNodeID maps a record target to the graph node id it denotes
// right now: a real id directly, a name through the name index, or the
// phantom id when the name does not resolve.
func (e *Engine) targetNodeID(t rel.Target) string {
	if t.Resolved() {
		return t.ID
	}
	if id, ok := e.graph.ResolveName(t.Name); ok {
		return id
	}
	return graph.PhantomID(t.Name)
}

// diffKey is the identity under which section and field records are
// compared. Name-based and id-based references to the same entity
// collapse to the same key.
func (e *Engine) diffKey(r rel.Record) string {
	return string(r.Kind) + "\x00" + e.targetNodeID(r.Target)
}
