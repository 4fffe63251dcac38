// Package idempotency makes retried mutating requests safe by remembering
// the first response produced for an Idempotency-Key.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrKeyNotFound = errors.New("idempotency key not found")

const (
	StatePending   = "pending"
	StateCompleted = "completed"
)

// Record is what is stored under a key.
type Record struct {
	State       string `json:"state"`
	StatusCode  int    `json:"statusCode,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewStore(client redis.UniversalClient, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

func storeKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// Begin claims the key. It reports false when another request already holds
// or completed it.
func (s *Store) Begin(ctx context.Context, scope, key string) (bool, error) {
	data, err := json.Marshal(Record{State: StatePending})
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, storeKey(scope, key), data, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim idempotency key: %w", err)
	}
	return ok, nil
}

func (s *Store) Get(ctx context.Context, scope, key string) (*Record, error) {
	data, err := s.client.Get(ctx, storeKey(scope, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal idempotency record: %w", err)
	}
	return &rec, nil
}

// Complete stores the final response for the key.
func (s *Store) Complete(ctx context.Context, scope, key string, rec Record) error {
	rec.State = StateCompleted
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, storeKey(scope, key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release forgets the key so the request may be retried.
func (s *Store) Release(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, storeKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
