package store

import (
	"context"
	"sort"
	"sync"

	"github.com/roach88/kinship/internal/rel"
)

// Memory is a map-backed EntityStore for tests. It counts writes per
// entity so tests can assert that unchanged documents trigger zero
// writes.
type Memory struct {
	mu      sync.Mutex
	texts   map[string]string // id -> document text
	names   map[string]string // id -> display name
	writes  map[string]int    // id -> WriteText count
	failing map[string]bool   // id -> force I/O errors
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		texts:   make(map[string]string),
		names:   make(map[string]string),
		writes:  make(map[string]int),
		failing: make(map[string]bool),
	}
}

// Put seeds or replaces an entity without counting as a write.
func (m *Memory) Put(id, displayName, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[id] = text
	m.names[id] = displayName
}

// Delete removes an entity.
func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.texts, id)
	delete(m.names, id)
}

// FailIO makes ReadText and WriteText return errors for one entity,
// simulating a broken document.
func (m *Memory) FailIO(id string, fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing[id] = fail
}

// Writes returns how many times WriteText ran for an entity.
func (m *Memory) Writes(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[id]
}

// Text returns the current document text directly, for assertions.
func (m *Memory) Text(id string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.texts[id]
}

func (m *Memory) ListEntities(ctx context.Context) ([]EntityRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	refs := make([]EntityRef, 0, len(m.texts))
	for id := range m.texts {
		refs = append(refs, EntityRef{ID: id, DisplayName: m.names[id]})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

func (m *Memory) ReadText(ctx context.Context, ref EntityRef) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing[ref.ID] {
		return "", &ioError{id: ref.ID, op: "read"}
	}
	text, ok := m.texts[ref.ID]
	if !ok {
		return "", ErrNotFound
	}
	return text, nil
}

func (m *Memory) WriteText(ctx context.Context, ref EntityRef, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing[ref.ID] {
		return &ioError{id: ref.ID, op: "write"}
	}
	if _, ok := m.texts[ref.ID]; !ok {
		return ErrNotFound
	}
	m.texts[ref.ID] = text
	m.writes[ref.ID]++
	return nil
}

func (m *Memory) LookupByDisplayName(ctx context.Context, name string) (EntityRef, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := rel.NormalizeName(name)
	for id, n := range m.names {
		if rel.NormalizeName(n) == want {
			return EntityRef{ID: id, DisplayName: n}, true, nil
		}
	}
	return EntityRef{}, false, nil
}

func (m *Memory) LookupByID(ctx context.Context, id string) (EntityRef, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.texts[id]; !ok {
		return EntityRef{}, false, nil
	}
	return EntityRef{ID: id, DisplayName: m.names[id]}, true, nil
}

// ioError is a synthetic I/O failure for tests.
type ioError struct {
	id string
	op string
}

func (e *ioError) Error() string {
	return "simulated " + e.op + " failure for " + e.id
}
