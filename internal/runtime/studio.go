// Package runtime hosts the Studio: the stateful shell around the pure
// compiler pipeline. The Studio owns the document store, memoizes the
// compiled graph on the exact document text, and notifies subscribers
// when a new graph is published.
//
// The flow is deliberately one-way: pure compute first, then a single
// store-replace plus broadcast. Handlers never mutate the published
// graph in place, which rules out re-entrant update cycles.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/canopy/internal/compiler"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/observability"
	"github.com/aretw0/canopy/internal/validator"
	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

// Update is pushed to subscribers whenever a new graph is published.
type Update struct {
	Revision uint64                 `json:"revision"`
	Graph    domain.PositionedGraph `json:"graph"`
}

// Studio wires the document store to the compiler pipeline.
type Studio struct {
	docs     ports.DocumentStore
	personas ports.PersonaStore
	compiler *compiler.Compiler
	parser   *compiler.Parser
	log      *slog.Logger
	metrics  *observability.Metrics

	mu          sync.Mutex
	cachedText  string
	cachedRev   uint64
	cachedGraph domain.PositionedGraph
	cacheWarm   bool

	subMu       sync.RWMutex
	subscribers map[chan Update]struct{}
}

// Option configures a Studio.
type Option func(*Studio)

// WithDocumentStore injects a document store (default: in-memory).
func WithDocumentStore(s ports.DocumentStore) Option {
	return func(st *Studio) { st.docs = s }
}

// WithPersonaStore injects a persona store (default: in-memory).
func WithPersonaStore(s ports.PersonaStore) Option {
	return func(st *Studio) { st.personas = s }
}

// WithLogger sets a structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(st *Studio) { st.log = log }
}

// WithMetrics enables Prometheus collection for compiles.
func WithMetrics(m *observability.Metrics) Option {
	return func(st *Studio) { st.metrics = m }
}

// New creates a Studio.
func New(opts ...Option) *Studio {
	st := &Studio{subscribers: make(map[chan Update]struct{})}
	for _, opt := range opts {
		opt(st)
	}
	if st.log == nil {
		st.log = logging.NewNop()
	}
	if st.docs == nil {
		st.docs = memory.NewDocumentStore()
	}
	if st.personas == nil {
		st.personas = memory.NewPersonaStore()
	}
	st.compiler = compiler.New(st.log)
	st.parser = compiler.NewParser(st.log)
	return st
}

// Document returns the current document text and revision.
func (st *Studio) Document(ctx context.Context) (string, uint64, error) {
	return st.docs.Get(ctx)
}

// SetDocument stores new document text, recompiles, publishes the new
// graph, and returns the new revision. A stale non-zero revision token is
// rejected with domain.ErrRevisionConflict before anything is compiled.
func (st *Studio) SetDocument(ctx context.Context, text string, expected uint64) (uint64, error) {
	rev, err := st.docs.Put(ctx, text, expected)
	if err != nil {
		return 0, fmt.Errorf("store document: %w", err)
	}

	graph := st.publish(text, rev)
	st.log.Info("document updated", "revision", rev, "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return rev, nil
}

// Graph returns the compiled graph for the current document, memoized on
// the exact document text.
func (st *Studio) Graph(ctx context.Context) (domain.PositionedGraph, error) {
	text, rev, err := st.docs.Get(ctx)
	if err != nil {
		return domain.PositionedGraph{}, fmt.Errorf("load document: %w", err)
	}

	st.mu.Lock()
	if st.cacheWarm && st.cachedText == text {
		graph := st.cachedGraph.Clone()
		st.mu.Unlock()
		return graph, nil
	}
	st.mu.Unlock()

	return st.publish(text, rev), nil
}

// Validate runs semantic validation on the given text without touching
// the stored document.
func (st *Studio) Validate(text string) domain.ValidationResult {
	return validator.ValidateText(st.parser, text)
}

// Personas exposes the persona store.
func (st *Studio) Personas() ports.PersonaStore {
	return st.personas
}

// Subscribe registers for graph updates. The returned cancel func must be
// called to release the subscription.
func (st *Studio) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 4)

	st.subMu.Lock()
	st.subscribers[ch] = struct{}{}
	st.subMu.Unlock()

	return ch, func() {
		st.subMu.Lock()
		defer st.subMu.Unlock()
		if _, ok := st.subscribers[ch]; ok {
			delete(st.subscribers, ch)
			close(ch)
		}
	}
}

// WatchStore recompiles when the document store signals an external
// change (e.g. the backing file was edited on disk). It blocks until the
// context is done; stores without change notification return immediately.
func (st *Studio) WatchStore(ctx context.Context) error {
	watchable, ok := st.docs.(ports.Watchable)
	if !ok {
		return nil
	}

	events, err := watchable.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch document store: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := st.Graph(ctx); err != nil {
				st.log.Warn("reload after external change failed", "err", err)
			}
		}
	}
}

// publish is the single effectful step of the pipeline: compile (pure),
// then replace the cache and broadcast. Stale results are dropped: a
// compile for an older revision never overwrites a newer one.
func (st *Studio) publish(text string, rev uint64) domain.PositionedGraph {
	start := time.Now()
	graph, fallback := st.compiler.CompileDetailed(text)
	st.metrics.ObserveCompile(start, fallback)

	st.mu.Lock()
	if st.cacheWarm && rev < st.cachedRev {
		cached := st.cachedGraph.Clone()
		st.mu.Unlock()
		return cached
	}
	st.cachedText = text
	st.cachedRev = rev
	st.cachedGraph = graph
	st.cacheWarm = true
	st.mu.Unlock()

	st.broadcast(Update{Revision: rev, Graph: graph.Clone()})
	return graph.Clone()
}

func (st *Studio) broadcast(u Update) {
	st.subMu.RLock()
	defer st.subMu.RUnlock()

	for ch := range st.subscribers {
		select {
		case ch <- u:
		default:
			// Drop for slow subscribers; they resync on the next update.
			st.log.Warn("subscriber buffer full, dropping graph update", "revision", u.Revision)
		}
	}
}
