package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
	"github.com/redis/go-redis/v9"
)

const (
	orderStateKeyPrefix  = "order_state:"
	idempotencyKeyPrefix = "idem:"

	OrderStateTTL  = 5 * time.Minute
	IdempotencyTTL = 24 * time.Hour
)

// orderStateJSON is the cached value under order_state:{id}
type orderStateJSON struct {
	ClientID string `json:"client_id"`
	State    string `json:"state"`
}

type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

var (
	_ port.OrderStateCache  = (*Redis)(nil)
	_ port.IdempotencyStore = (*Redis)(nil)
)

func (r *Redis) SetOrderState(ctx context.Context, orderID uuid.UUID, state port.CachedOrderState) error {
	payload, err := marshalOrderState(state)
	if err != nil {
		return fmt.Errorf("marshalOrderState: %w", err)
	}

	if err := r.client.Set(ctx, orderStateKeyPrefix+orderID.String(), payload, OrderStateTTL).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *Redis) FillOrderState(ctx context.Context, orderID uuid.UUID, state port.CachedOrderState) (bool, error) {
	payload, err := marshalOrderState(state)
	if err != nil {
		return false, fmt.Errorf("marshalOrderState: %w", err)
	}

	ok, err := r.client.SetNX(ctx, orderStateKeyPrefix+orderID.String(), payload, OrderStateTTL).Result()
	if err != nil {
		return false, fmt.Errorf("client.SetNX: %w", err)
	}

	return ok, nil
}

func marshalOrderState(state port.CachedOrderState) ([]byte, error) {
	return json.Marshal(orderStateJSON{
		ClientID: state.ClientID,
		State:    string(state.State),
	})
}

func (r *Redis) GetOrderState(ctx context.Context, orderID uuid.UUID) (port.CachedOrderState, bool, error) {
	var s port.CachedOrderState

	raw, err := r.client.Get(ctx, orderStateKeyPrefix+orderID.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return s, false, nil
		}
		return s, false, fmt.Errorf("client.Get: %w", err)
	}

	var cached orderStateJSON
	if err := json.Unmarshal(raw, &cached); err != nil {
		return s, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	state, err := domain.ToOrderState(cached.State)
	if err != nil {
		return s, false, fmt.Errorf("domain.ToOrderState[%s]: %w", cached.State, err)
	}

	return port.CachedOrderState{ClientID: cached.ClientID, State: state}, true, nil
}

func (r *Redis) Claim(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("key is empty")
	}

	ok, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, IdempotencyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("client.SetNX: %w", err)
	}

	return ok, nil
}

// Release frees a claimed key so a failed checkout can be retried with it.
func (r *Redis) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, idempotencyKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

// Ping is used by the health check.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
