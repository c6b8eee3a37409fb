package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an entity id has no document behind it.
var ErrNotFound = errors.New("entity not found")

// EntityRef identifies one contact document in the store.
type EntityRef struct {
	ID          string
	DisplayName string
}

// EntityStore is the collaborator contract the sync engine consumes.
// Implementations persist documents; the engine owns their meaning.
//
// WriteText is assumed atomic from the engine's perspective: a reader
// never observes a half-written document.
type EntityStore interface {
	// ListEntities returns every known entity, ordered by id.
	ListEntities(ctx context.Context) ([]EntityRef, error)

	// ReadText returns the full document text for an entity.
	ReadText(ctx context.Context, ref EntityRef) (string, error)

	// WriteText atomically replaces the document text for an entity.
	WriteText(ctx context.Context, ref EntityRef, text string) error

	// LookupByDisplayName resolves a display name, matched
	// case-insensitively after normalization. ok is false when no
	// entity has that name.
	LookupByDisplayName(ctx context.Context, name string) (EntityRef, bool, error)

	// LookupByID resolves an entity id. ok is false when unknown.
	LookupByID(ctx context.Context, id string) (EntityRef, bool, error)
}
