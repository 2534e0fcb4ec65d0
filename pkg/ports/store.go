package ports

import (
	"context"

	"github.com/aretw0/canopy/pkg/domain"
)

// DocumentStore persists the workflow document text. There is exactly one
// document per store; the revision is a monotonically increasing
// generation token used to arbitrate overlapping saves.
type DocumentStore interface {
	// Get returns the current document text and its revision. An empty
	// store returns ("", 0, nil).
	Get(ctx context.Context) (string, uint64, error)

	// Put replaces the document text and returns the new revision.
	// When expected is non-zero and does not match the stored revision,
	// the write is rejected with domain.ErrRevisionConflict (the
	// last-writer-wins-with-token policy). expected == 0 writes
	// unconditionally.
	Put(ctx context.Context, text string, expected uint64) (uint64, error)
}

// PersonaStore manages agent persona records.
type PersonaStore interface {
	// List returns all personas, ordered by ID.
	List(ctx context.Context) ([]domain.Persona, error)

	// Get retrieves a persona by ID.
	// Returns domain.ErrPersonaNotFound if it does not exist.
	Get(ctx context.Context, id string) (domain.Persona, error)

	// Save creates or replaces a persona.
	Save(ctx context.Context, p domain.Persona) error

	// Delete removes a persona by ID.
	Delete(ctx context.Context, id string) error
}

// Watchable is implemented by document stores whose backing medium can
// change underneath us (e.g. a file edited on disk). The channel is
// signaled when a reload is required.
type Watchable interface {
	Watch(ctx context.Context) (<-chan struct{}, error)
}
