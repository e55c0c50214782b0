// Package draftslot implements the draft slot on Redis, used when the planning
// session lives server-side (one key per signed-in visitor).
package draftslot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Slot stores the draft under a single Redis key with no expiry; clearing the
// draft deletes the key.
type Slot struct {
	client *redis.Client
	key    string
}

func NewSlot(client *redis.Client, key string) *Slot {
	return &Slot{client: client, key: key}
}

func (s *Slot) Get(ctx context.Context) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read draft slot %q: %w", s.key, err)
	}
	return b, true, nil
}

func (s *Slot) Put(ctx context.Context, value []byte) error {
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("write draft slot %q: %w", s.key, err)
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear draft slot %q: %w", s.key, err)
	}
	return nil
}
