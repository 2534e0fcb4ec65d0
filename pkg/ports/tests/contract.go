package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/ports"
)

// DocumentStoreContractTest is a reusable suite verifying that an adapter
// complies with ports.DocumentStore, including the revision-token policy.
func DocumentStoreContractTest(t *testing.T, store ports.DocumentStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("EmptyStore", func(t *testing.T) {
		text, rev, err := store.Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error reading empty store: %v", err)
		}
		if text != "" || rev != 0 {
			t.Errorf("empty store should be (\"\", 0), got (%q, %d)", text, rev)
		}
	})

	t.Run("PutThenGet", func(t *testing.T) {
		rev, err := store.Put(ctx, "states: {}", 0)
		if err != nil {
			t.Fatalf("unconditional put failed: %v", err)
		}
		if rev == 0 {
			t.Error("put must return a non-zero revision")
		}

		text, gotRev, err := store.Get(ctx)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if text != "states: {}" {
			t.Errorf("document text mismatch: got %q", text)
		}
		if gotRev != rev {
			t.Errorf("revision mismatch: got %d, want %d", gotRev, rev)
		}
	})

	t.Run("RevisionArbitration", func(t *testing.T) {
		_, current, err := store.Get(ctx)
		if err != nil {
			t.Fatal(err)
		}

		next, err := store.Put(ctx, "states:\n  a:\n", current)
		if err != nil {
			t.Fatalf("matching-revision put failed: %v", err)
		}
		if next <= current {
			t.Errorf("revision must increase: %d -> %d", current, next)
		}

		// A writer still holding the old token loses.
		if _, err := store.Put(ctx, "states:\n  stale:\n", current); !errors.Is(err, domain.ErrRevisionConflict) {
			t.Errorf("stale put should fail with ErrRevisionConflict, got %v", err)
		}

		text, _, err := store.Get(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if text != "states:\n  a:\n" {
			t.Errorf("stale write must not land, store holds %q", text)
		}
	})
}

// PersonaStoreContractTest is a reusable suite verifying that an adapter
// complies with ports.PersonaStore.
func PersonaStoreContractTest(t *testing.T, store ports.PersonaStore) {
	t.Helper()
	ctx := context.Background()

	architect := domain.Persona{ID: "architect", Name: "Architect", Description: "Designs the system", Content: "You are a software architect."}
	reviewer := domain.Persona{ID: "reviewer", Name: "Reviewer", Description: "Reviews changes", Content: "You are a meticulous reviewer."}

	t.Run("SaveAndGet", func(t *testing.T) {
		if err := store.Save(ctx, architect); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := store.Get(ctx, "architect")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got != architect {
			t.Errorf("persona round-trip mismatch: got %+v", got)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		if _, err := store.Get(ctx, "nobody"); !errors.Is(err, domain.ErrPersonaNotFound) {
			t.Errorf("expected ErrPersonaNotFound, got %v", err)
		}
	})

	t.Run("ListOrderedByID", func(t *testing.T) {
		if err := store.Save(ctx, reviewer); err != nil {
			t.Fatal(err)
		}
		all, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 personas, got %d", len(all))
		}
		if all[0].ID != "architect" || all[1].ID != "reviewer" {
			t.Errorf("list must be ordered by ID, got %s, %s", all[0].ID, all[1].ID)
		}
	})

	t.Run("Update", func(t *testing.T) {
		architect.Description = "Designs and documents the system"
		if err := store.Save(ctx, architect); err != nil {
			t.Fatal(err)
		}
		got, err := store.Get(ctx, "architect")
		if err != nil {
			t.Fatal(err)
		}
		if got.Description != architect.Description {
			t.Error("save must replace the existing record")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "reviewer"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Get(ctx, "reviewer"); !errors.Is(err, domain.ErrPersonaNotFound) {
			t.Errorf("deleted persona should be gone, got %v", err)
		}
	})
}
