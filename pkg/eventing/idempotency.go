package eventing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/redis"
)

// IdempotencyManager tracks processed event IDs per consumer using Redis SETNX
// with a TTL. Keys follow the `ps:idempotency:evt:processed:<consumer>:<event_id>`
// pattern.
type IdempotencyManager struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyManager builds an idempotency guard that marks events as
// processed for the given TTL.
func NewIdempotencyManager(store redis.IdempotencyStore, ttl time.Duration) (*IdempotencyManager, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	return &IdempotencyManager{
		store: store,
		ttl:   ttl,
	}, nil
}

// CheckAndMarkProcessed returns true if the event has already been processed
// and otherwise marks it as processed with the configured TTL.
func (m *IdempotencyManager) CheckAndMarkProcessed(ctx context.Context, consumer string, eventID uuid.UUID) (bool, error) {
	key, err := m.processedKey(consumer, eventID)
	if err != nil {
		return false, err
	}
	set, err := m.store.SetNX(ctx, key, "1", m.ttl)
	if err != nil {
		return false, err
	}
	return !set, nil
}

// Delete clears a processed marker so the event can be handled again.
func (m *IdempotencyManager) Delete(ctx context.Context, consumer string, eventID uuid.UUID) error {
	key, err := m.processedKey(consumer, eventID)
	if err != nil {
		return err
	}
	return m.store.Del(ctx, key)
}

func (m *IdempotencyManager) processedKey(consumer string, eventID uuid.UUID) (string, error) {
	if consumer == "" {
		return "", errors.New("consumer name is required")
	}
	if eventID == uuid.Nil {
		return "", errors.New("event id is required")
	}
	scope := fmt.Sprintf("evt:processed:%s", consumer)
	return m.store.IdempotencyKey(scope, eventID.String()), nil
}
