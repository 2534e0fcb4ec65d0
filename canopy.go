package canopy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/canopy/internal/compiler"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/internal/observability"
	"github.com/aretw0/canopy/internal/presentation/graph"
	"github.com/aretw0/canopy/internal/runtime"
	"github.com/aretw0/canopy/internal/validator"
	loamAdapter "github.com/aretw0/canopy/pkg/adapters/loam"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

// Version is the library version reported by the CLI and the MCP server.
var Version = "0.2.0"

// Update is a recompiled graph published after a document change.
type Update struct {
	Revision uint64                 `json:"revision"`
	Graph    domain.PositionedGraph `json:"graph"`
}

// Studio is the high-level entry point for the Canopy library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Studio struct {
	runtime  *runtime.Studio
	docs     ports.DocumentStore
	personas ports.PersonaStore
	metrics  *observability.Metrics
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Studio.
type Option func(*Studio)

// WithDocumentStore injects a custom document store, bypassing the default
// Loam initialization.
func WithDocumentStore(s ports.DocumentStore) Option {
	return func(st *Studio) {
		st.docs = s
	}
}

// WithPersonaStore injects a custom persona store.
func WithPersonaStore(s ports.PersonaStore) Option {
	return func(st *Studio) {
		st.personas = s
	}
}

// WithLogger sets a custom structured logger for the studio.
func WithLogger(logger *slog.Logger) Option {
	return func(st *Studio) {
		st.logger = logger
	}
}

// WithMetrics attaches Prometheus collectors to the compile pipeline.
func WithMetrics(m *observability.Metrics) Option {
	return func(st *Studio) {
		st.metrics = m
	}
}

// New initializes a new Canopy Studio.
// By default, it stores the workflow document in a Loam repository at the
// given path. If WithDocumentStore is provided, repoPath can be empty and
// Loam is skipped.
func New(repoPath string, opts ...Option) (*Studio, error) {
	st := &Studio{}

	for _, opt := range opts {
		opt(st)
	}

	if st.docs == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom document store is provided")
		}

		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		st.Name = filepath.Base(absPath)

		store, err := loamAdapter.Open(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}
		st.docs = store
	} else if repoPath != "" {
		st.Name = filepath.Base(repoPath)
	}

	if st.logger == nil {
		st.logger = logging.NewNop()
	}
	if st.Name != "" {
		st.logger = st.logger.With("studio", st.Name)
	}

	runtimeOpts := []runtime.Option{
		runtime.WithDocumentStore(st.docs),
		runtime.WithLogger(st.logger),
		runtime.WithMetrics(st.metrics),
	}
	if st.personas != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithPersonaStore(st.personas))
	}

	st.runtime = runtime.New(runtimeOpts...)
	return st, nil
}

// Document returns the stored workflow document and its revision.
func (st *Studio) Document(ctx context.Context) (string, uint64, error) {
	return st.runtime.Document(ctx)
}

// SetDocument replaces the stored workflow document. Pass the revision from
// a prior read to detect concurrent edits, or 0 to overwrite unconditionally.
func (st *Studio) SetDocument(ctx context.Context, text string, expected uint64) (uint64, error) {
	return st.runtime.SetDocument(ctx, text, expected)
}

// Graph compiles the stored document into a positioned graph.
func (st *Studio) Graph(ctx context.Context) (domain.PositionedGraph, error) {
	return st.runtime.Graph(ctx)
}

// Validate checks a document without storing it.
func (st *Studio) Validate(text string) domain.ValidationResult {
	return st.runtime.Validate(text)
}

// Personas returns the persona store backing this studio.
func (st *Studio) Personas() ports.PersonaStore {
	return st.runtime.Personas()
}

// Subscribe returns a channel of graph updates and a cancel function.
// The channel closes after cancel is called.
func (st *Studio) Subscribe() (<-chan Update, func()) {
	inner, cancel := st.runtime.Subscribe()
	out := make(chan Update)
	done := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case u, open := <-inner:
				if !open {
					return
				}
				select {
				case out <- Update{Revision: u.Revision, Graph: u.Graph}:
				case <-done:
					return
				}
			}
		}
	}()
	return out, func() {
		cancel()
		close(done)
	}
}

// Watch blocks, recompiling whenever the underlying store reports a change.
// Returns an error if the store does not support watching.
func (st *Studio) Watch(ctx context.Context) error {
	return st.runtime.WatchStore(ctx)
}

// Compile turns a workflow document into a positioned graph. Documents that
// cannot produce any nodes yield the built-in example graph instead.
func Compile(text string) domain.PositionedGraph {
	return compiler.New(nil).Compile(text)
}

// Validate checks a workflow document and reports errors and warnings.
func Validate(text string) domain.ValidationResult {
	return validator.ValidateText(compiler.NewParser(nil), text)
}

// Mermaid renders a positioned graph as a Mermaid flowchart definition.
func Mermaid(g domain.PositionedGraph) string {
	return graph.GenerateMermaid(g)
}
