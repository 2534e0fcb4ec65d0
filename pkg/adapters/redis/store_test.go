package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/aretw0/canopy/pkg/adapters/redis"
	"github.com/aretw0/canopy/pkg/ports/tests"
)

func newClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestDocumentStore_Contract(t *testing.T) {
	tests.DocumentStoreContractTest(t, redisadapter.NewDocumentStore(newClient(t)))
}

func TestPersonaStore_Contract(t *testing.T) {
	tests.PersonaStoreContractTest(t, redisadapter.NewPersonaStore(newClient(t)))
}

func TestDocumentStore_PrefixIsolation(t *testing.T) {
	client := newClient(t)
	ctx := context.Background()

	one := redisadapter.NewDocumentStore(client, redisadapter.WithPrefix("one:"))
	two := redisadapter.NewDocumentStore(client, redisadapter.WithPrefix("two:"))

	_, err := one.Put(ctx, "states:\n  a:\n", 0)
	require.NoError(t, err)

	text, rev, err := two.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Zero(t, rev)
}
