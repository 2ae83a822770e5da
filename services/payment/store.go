package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// stateTTL bounds how long an abandoned checkout keeps its state around.
const stateTTL = 30 * time.Minute

func stateKey(bookingID string) string {
	return "payment_state:" + bookingID
}

// RedisStateStore keeps the state machine as JSON in redis with a TTL, the
// same way booking sessions are cached.
type RedisStateStore struct {
	Client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{Client: client}
}

// Get returns the stored state, or nil when none exists (fresh checkout).
func (s *RedisStateStore) Get(ctx context.Context, bookingID string) (*State, error) {
	data, err := s.Client.Get(ctx, stateKey(bookingID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment state for booking %s: %w", bookingID, err)
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to parse payment state for booking %s: %w", bookingID, err)
	}
	return &state, nil
}

func (s *RedisStateStore) Put(ctx context.Context, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal payment state: %w", err)
	}
	if err := s.Client.Set(ctx, stateKey(state.BookingID), data, stateTTL).Err(); err != nil {
		return fmt.Errorf("failed to store payment state for booking %s: %w", state.BookingID, err)
	}
	return nil
}

func (s *RedisStateStore) Delete(ctx context.Context, bookingID string) error {
	return s.Client.Del(ctx, stateKey(bookingID)).Err()
}
