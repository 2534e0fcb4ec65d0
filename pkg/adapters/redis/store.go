// Package redis provides store adapters backed by Redis, for deployments
// where several Canopy replicas share one document.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/canopy/pkg/domain"
)

const defaultPrefix = "canopy:"

// putScript writes the document only when the caller's revision token is
// current (or zero for unconditional writes), then bumps the revision.
// Script execution is atomic, so two racing writers cannot both win.
const putScript = `
local rev = tonumber(redis.call("GET", KEYS[2]) or "0")
if ARGV[2] ~= "0" and tonumber(ARGV[2]) ~= rev then
	return -1
end
redis.call("SET", KEYS[1], ARGV[1])
return redis.call("INCR", KEYS[2])
`

// DocumentStore implements ports.DocumentStore on Redis.
type DocumentStore struct {
	client *backend.Client
	prefix string
}

// Option configures a Redis store.
type Option func(*DocumentStore)

// WithPrefix overrides the default "canopy:" key prefix.
func WithPrefix(prefix string) Option {
	return func(s *DocumentStore) { s.prefix = prefix }
}

// NewDocumentStore creates a document store from an existing client.
func NewDocumentStore(client *backend.Client, opts ...Option) *DocumentStore {
	s := &DocumentStore{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *DocumentStore) textKey() string { return s.prefix + "document" }
func (s *DocumentStore) revKey() string  { return s.prefix + "document:rev" }

// Get returns the current text and revision.
func (s *DocumentStore) Get(ctx context.Context) (string, uint64, error) {
	text, err := s.client.Get(ctx, s.textKey()).Result()
	if errors.Is(err, backend.Nil) {
		return "", 0, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("redis get document: %w", err)
	}

	rev, err := s.client.Get(ctx, s.revKey()).Uint64()
	if err != nil && !errors.Is(err, backend.Nil) {
		return "", 0, fmt.Errorf("redis get revision: %w", err)
	}
	return text, rev, nil
}

// Put replaces the text atomically, honoring the revision token policy.
func (s *DocumentStore) Put(ctx context.Context, text string, expected uint64) (uint64, error) {
	res, err := s.client.Eval(ctx, putScript,
		[]string{s.textKey(), s.revKey()},
		text, fmt.Sprintf("%d", expected),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis put document: %w", err)
	}
	if res < 0 {
		return 0, domain.ErrRevisionConflict
	}
	return uint64(res), nil
}

// PersonaStore implements ports.PersonaStore on a Redis hash.
type PersonaStore struct {
	client *backend.Client
	key    string
}

// NewPersonaStore creates a persona store from an existing client.
func NewPersonaStore(client *backend.Client) *PersonaStore {
	return &PersonaStore{client: client, key: defaultPrefix + "personas"}
}

// List returns all personas ordered by ID.
func (s *PersonaStore) List(ctx context.Context) ([]domain.Persona, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list personas: %w", err)
	}

	out := make([]domain.Persona, 0, len(raw))
	for id, blob := range raw {
		var p domain.Persona
		if err := json.Unmarshal([]byte(blob), &p); err != nil {
			return nil, fmt.Errorf("decode persona %s: %w", id, err)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get retrieves a persona by ID.
func (s *PersonaStore) Get(ctx context.Context, id string) (domain.Persona, error) {
	blob, err := s.client.HGet(ctx, s.key, id).Result()
	if errors.Is(err, backend.Nil) {
		return domain.Persona{}, domain.ErrPersonaNotFound
	}
	if err != nil {
		return domain.Persona{}, fmt.Errorf("redis get persona: %w", err)
	}

	var p domain.Persona
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		return domain.Persona{}, fmt.Errorf("decode persona %s: %w", id, err)
	}
	return p, nil
}

// Save creates or replaces a persona.
func (s *PersonaStore) Save(ctx context.Context, p domain.Persona) error {
	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode persona %s: %w", p.ID, err)
	}
	if err := s.client.HSet(ctx, s.key, p.ID, blob).Err(); err != nil {
		return fmt.Errorf("redis save persona: %w", err)
	}
	return nil
}

// Delete removes a persona.
func (s *PersonaStore) Delete(ctx context.Context, id string) error {
	if err := s.client.HDel(ctx, s.key, id).Err(); err != nil {
		return fmt.Errorf("redis delete persona: %w", err)
	}
	return nil
}
