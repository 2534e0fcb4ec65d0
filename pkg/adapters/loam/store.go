// Package loam adapts a Loam file repository to the Canopy document
// store, so the workflow document can live on disk next to the project
// and be edited with any tool.
package loam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/canopy/pkg/domain"
)

// documentID is the fixed Loam document holding the workflow description.
const documentID = "workflow"

// DocMeta is the frontmatter of the workflow document file.
// It uses "mapstructure" tags to match the frontmatter keys.
type DocMeta struct {
	Revision uint64 `mapstructure:"revision"`
}

// DocumentStore implements ports.DocumentStore over a Loam repository.
// The revision token lives in the file's frontmatter; writes are
// serialized by a process-local mutex (Loam itself is file-based and has
// no compare-and-swap primitive).
type DocumentStore struct {
	repo  core.Repository
	typed *loam.TypedRepository[DocMeta]
	mu    sync.Mutex
}

// New creates a document store over an initialized Loam repository.
func New(repo core.Repository) *DocumentStore {
	return &DocumentStore{
		repo:  repo,
		typed: loam.NewTypedRepository[DocMeta](repo),
	}
}

// Open initializes a Loam repository at the given path and wraps it.
func Open(path string, opts ...loam.Option) (*DocumentStore, error) {
	repo, err := loam.Init(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("init loam repo: %w", err)
	}
	return New(repo), nil
}

// Get returns the document body and its frontmatter revision.
// A repository without the workflow file reads as an empty store; any
// other failure propagates so a transient error cannot masquerade as
// revision 0 and restart the revision sequence.
func (s *DocumentStore) Get(ctx context.Context) (string, uint64, error) {
	doc, err := s.typed.Get(ctx, documentID)
	if isNotFound(err) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("loam get document: %w", err)
	}
	return doc.Content, doc.Data.Revision, nil
}

// isNotFound matches the absent-document case. Loam wraps the underlying
// filesystem error, but some lookup paths only report "not found" in the
// message.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no such file")
}

// Put replaces the document, honoring the revision token policy.
func (s *DocumentStore) Put(ctx context.Context, text string, expected uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, current, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	if expected != 0 && expected != current {
		return 0, domain.ErrRevisionConflict
	}

	next := current + 1
	content := fmt.Sprintf("---\nrevision: %d\n---\n%s", next, text)
	if err := s.repo.Save(ctx, core.Document{ID: documentID + ".md", Content: content}); err != nil {
		return 0, fmt.Errorf("loam save failed: %w", err)
	}
	return next, nil
}

// Watch implements ports.Watchable: the channel fires whenever the
// backing file changes on disk, so the runtime can recompile on external
// edits.
func (s *DocumentStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := s.typed.Watch(ctx, "**/*.{md,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: one pending signal is enough.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}
