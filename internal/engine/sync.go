package engine

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/roach88/kinship/internal/field"
	"github.com/roach88/kinship/internal/graph"
	"github.com/roach88/kinship/internal/rel"
	"github.com/roach88/kinship/internal/section"
	"github.com/roach88/kinship/internal/store"
)

// UserEditSync reconciles an entity after its document was edited by a
// user. The rendered section is authoritative for what the user wants;
// the structured fields record what the system last knew. Records only
// in the section are additions, records only in the fields are
// removals, and the difference is applied to the graph with complement
// mirroring.
//
// The edited entity's own fields are regenerated from the graph; its
// section is left untouched so an in-progress edit keeps its line
// ordering. Every other entity whose edge set changed is then locked,
// rewritten, and unlocked.
//
// If the entity is already locked the request is dropped silently.
func (e *Engine) UserEditSync(ctx context.Context, id string) error {
	if !e.locks.TryAcquire(id) {
		e.log.Debug("sync dropped, entity locked", zap.String("entity", id))
		return nil
	}
	defer e.locks.Release(id)

	op := e.tokens.Generate()
	affected, err := e.applyUserEdit(ctx, op, id)
	if err != nil {
		return err
	}
	e.propagate(ctx, op, affected, id)
	return nil
}

// ViewSync regenerates only the rendered section from the entity's
// existing structured fields. No graph mutation; an unchanged document
// triggers zero writes.
func (e *Engine) ViewSync(ctx context.Context, id string) error {
	if !e.locks.TryAcquire(id) {
		e.log.Debug("view sync dropped, entity locked", zap.String("entity", id))
		return nil
	}
	defer e.locks.Release(id)

	ref, text, err := e.readEntity(ctx, id)
	if err != nil {
		return err
	}
	doc := store.ParseDocument(text)

	records, skipped := field.Parse(doc.Fields())
	for _, key := range skipped {
		e.log.Warn("skipping malformed relationship field",
			zap.String("entity", id), zap.String("key", key))
	}
	e.decorate(ctx, records)

	body := section.Update(doc.Body, e.heading, records)
	if body == doc.Body {
		return nil
	}
	doc.Body = body
	return e.store.WriteText(ctx, ref, doc.Render())
}

// FullSync first upgrades every phantom whose display name now matches
// a real entity, then runs a user-edit sync for the requested entity.
// Entities touched by an upgrade are propagated to even when the
// requested entity's own diff is empty.
func (e *Engine) FullSync(ctx context.Context, id string) error {
	if !e.locks.TryAcquire(id) {
		e.log.Debug("full sync dropped, entity locked", zap.String("entity", id))
		return nil
	}
	defer e.locks.Release(id)

	op := e.tokens.Generate()
	affected := e.upgradePhantoms(ctx, op)

	edited, err := e.applyUserEdit(ctx, op, id)
	if err != nil {
		return err
	}
	for target := range edited {
		affected[target] = true
	}
	e.propagate(ctx, op, affected, id)
	return nil
}

// SyncAll runs a full sync for every entity in the store. Per-entity
// failures are logged and skipped.
func (e *Engine) SyncAll(ctx context.Context) error {
	refs, err := e.store.ListEntities(ctx)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := e.FullSync(ctx, ref.ID); err != nil {
			e.log.Warn("sync all: entity failed",
				zap.String("entity", ref.ID), zap.Error(err))
		}
	}
	return nil
}

// applyUserEdit performs the graph reconciliation and own-document
// rewrite for one entity. The caller holds the entity's lock. Returns
// the node ids whose edge sets changed as a side effect.
func (e *Engine) applyUserEdit(ctx context.Context, op, id string) (map[string]bool, error) {
	ref, text, err := e.readEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := store.ParseDocument(text)
	e.graph.AddNode(ref.ID, ref.DisplayName, true)

	fieldRecs, skipped := field.Parse(doc.Fields())
	for _, key := range skipped {
		e.log.Warn("skipping malformed relationship field",
			zap.String("entity", id), zap.String("key", key),
			zap.String("op", op))
	}

	affected := make(map[string]bool)

	// The graph may lag the stored fields, on a fresh start or when a
	// mirror document has drifted. Seeding with complement mirroring
	// makes the counterpart's missing edge show up as a change.
	for _, r := range fieldRecs {
		if e.graph.AddBidirectional(id, targetRef(r.Target), r.Kind, !r.Target.Resolved()) {
			affected[e.targetNodeID(r.Target)] = true
		}
	}

	// The diff only applies when the section heading exists. An absent
	// section means the fields are the sole representation, not that
	// the user removed every relationship.
	if section.Exists(doc.Body, e.heading) {
		sectionRecs := section.Parse(doc.Body, e.heading)

		have := make(map[string]bool, len(fieldRecs))
		for _, r := range fieldRecs {
			have[e.diffKey(r)] = true
		}
		want := make(map[string]bool, len(sectionRecs))
		for _, r := range sectionRecs {
			want[e.diffKey(r)] = true
		}

		for _, r := range sectionRecs {
			if have[e.diffKey(r)] {
				continue
			}
			if e.graph.AddBidirectional(id, targetRef(r.Target), r.Kind, !r.Target.Resolved()) {
				affected[e.targetNodeID(r.Target)] = true
				e.log.Info("relationship added",
					zap.String("entity", id), zap.String("kind", string(r.Kind)),
					zap.String("target", e.targetNodeID(r.Target)),
					zap.String("op", op))
			}
		}
		for _, r := range fieldRecs {
			if want[e.diffKey(r)] {
				continue
			}
			target := e.targetNodeID(r.Target)
			if e.graph.RemoveBidirectional(id, target, r.Kind) {
				affected[target] = true
				e.log.Info("relationship removed",
					zap.String("entity", id), zap.String("kind", string(r.Kind)),
					zap.String("target", target), zap.String("op", op))
			}
		}

		e.noteGenderHints(doc.Body)
	}

	// Regenerate this entity's fields only. Rendering its section here
	// would clobber the edit the user may still be making.
	doc.SetRelated(field.Encode(e.graph.RecordsFrom(id)))
	if rendered := doc.Render(); rendered != text {
		if err := e.store.WriteText(ctx, ref, rendered); err != nil {
			return nil, fmt.Errorf("rewrite %s: %w", id, err)
		}
	}

	delete(affected, id)
	return affected, nil
}

// propagate rewrites every affected entity from the graph, fields
// first, then section. Phantoms have no document and are skipped.
// Failures and lock contention abort only the entity they hit.
func (e *Engine) propagate(ctx context.Context, op string, affected map[string]bool, origin string) {
	ids := make([]string, 0, len(affected))
	for id := range affected {
		if id == origin || graph.IsPhantomID(id) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	budget := NewBudget(e.maxSteps)
	for _, id := range ids {
		if err := budget.Take(op); err != nil {
			e.log.Error("propagation budget exceeded",
				zap.String("op", op), zap.Int("limit", budget.Limit()),
				zap.Error(err))
			return
		}
		e.refresh(ctx, op, id)
	}
}

// refresh regenerates one entity's document from the graph. Both
// representations are rewritten, structured fields strictly before the
// rendered section.
func (e *Engine) refresh(ctx context.Context, op, id string) {
	if !e.locks.TryAcquire(id) {
		e.log.Debug("propagation skipped, entity locked",
			zap.String("entity", id), zap.String("op", op))
		return
	}
	defer e.locks.Release(id)

	ref, text, err := e.readEntity(ctx, id)
	if err != nil {
		e.log.Warn("propagation: entity unreadable",
			zap.String("entity", id), zap.String("op", op), zap.Error(err))
		return
	}
	doc := store.ParseDocument(text)

	records := e.graph.RecordsFrom(id)
	doc.SetRelated(field.Encode(records))
	doc.Body = section.Update(doc.Body, e.heading, records)

	rendered := doc.Render()
	if rendered == text {
		return
	}
	if err := e.store.WriteText(ctx, ref, rendered); err != nil {
		e.log.Warn("propagation: write failed",
			zap.String("entity", id), zap.String("op", op), zap.Error(err))
		return
	}
	e.log.Info("entity propagated",
		zap.String("entity", id), zap.String("op", op))
}

// upgradePhantoms promotes every phantom whose display name now
// resolves to a real entity. Returns the node ids whose records
// changed: the promoted entity and every neighbor of the old phantom.
func (e *Engine) upgradePhantoms(ctx context.Context, op string) map[string]bool {
	affected := make(map[string]bool)
	for _, p := range e.graph.Phantoms() {
		ref, ok, err := e.store.LookupByDisplayName(ctx, p.Name)
		if err != nil {
			e.log.Warn("phantom lookup failed",
				zap.String("name", p.Name), zap.String("op", op), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}

		neighbors := e.graph.Neighbors(p.ID)
		if !e.graph.UpgradeName(p.Name, ref.ID) {
			continue
		}
		e.graph.AddNode(ref.ID, ref.DisplayName, true)

		affected[ref.ID] = true
		for _, n := range neighbors {
			affected[n] = true
		}
		e.log.Info("phantom upgraded",
			zap.String("name", p.Name), zap.String("entity", ref.ID),
			zap.String("op", op))
	}
	return affected
}

// decorate fills in display names and genders for field records from
// the graph, falling back to a store lookup for ids the graph has not
// seen. Read-only; view syncs must not mutate the graph.
func (e *Engine) decorate(ctx context.Context, records []rel.Record) {
	for i := range records {
		t := records[i].Target
		var nodeID string
		if t.Resolved() {
			nodeID = t.ID
		} else if id, ok := e.graph.ResolveName(t.Name); ok {
			nodeID = id
		} else {
			nodeID = graph.PhantomID(t.Name)
		}

		if n, ok := e.graph.NodeByID(nodeID); ok {
			if n.Name != "" {
				records[i].Target.Name = n.Name
			}
			if records[i].Gender == rel.GenderUnknown {
				records[i].Gender = n.Gender
			}
		} else if t.Resolved() && t.Name == "" {
			if ref, ok, err := e.store.LookupByID(ctx, t.ID); err == nil && ok {
				records[i].Target.Name = ref.DisplayName
			}
		}

		// A record with neither id nor resolvable name still renders;
		// the raw reference is better than dropping the line.
		if records[i].Target.Name == "" {
			records[i].Target.Name = t.ID
		}
	}
}

// readEntity resolves an id to its ref and current document text.
func (e *Engine) readEntity(ctx context.Context, id string) (store.EntityRef, string, error) {
	ref, ok, err := e.store.LookupByID(ctx, id)
	if err != nil {
		return store.EntityRef{}, "", fmt.Errorf("lookup %s: %w", id, err)
	}
	if !ok {
		return store.EntityRef{}, "", fmt.Errorf("lookup %s: %w", id, store.ErrNotFound)
	}
	text, err := e.store.ReadText(ctx, ref)
	if err != nil {
		return store.EntityRef{}, "", fmt.Errorf("read %s: %w", id, err)
	}
	return ref, text, nil
}
