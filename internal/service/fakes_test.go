package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/surplus/internal/domain"
	"github.com/nikolayk812/surplus/internal/port"
	"github.com/samber/lo"
)

type fakeCache struct {
	mu     sync.Mutex
	states map[uuid.UUID]port.CachedOrderState
}

func newFakeCache() *fakeCache {
	return &fakeCache{states: make(map[uuid.UUID]port.CachedOrderState)}
}

func (c *fakeCache) SetOrderState(_ context.Context, orderID uuid.UUID, state port.CachedOrderState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.states[orderID] = state
	return nil
}

func (c *fakeCache) FillOrderState(_ context.Context, orderID uuid.UUID, state port.CachedOrderState) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.states[orderID]; ok {
		return false, nil
	}

	c.states[orderID] = state
	return true, nil
}

func (c *fakeCache) GetOrderState(_ context.Context, orderID uuid.UUID) (port.CachedOrderState, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[orderID]
	return state, ok, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (p *fakePublisher) Publish(_ context.Context, event domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) eventsFor(orderID uuid.UUID) []domain.OrderEventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	return lo.FilterMap(p.events, func(e domain.OrderEvent, _ int) (domain.OrderEventType, bool) {
		return e.Type, e.OrderID == orderID
	})
}

type fakeIdempotency struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: make(map[string]struct{})}
}

func (f *fakeIdempotency) Claim(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.keys[key]; ok {
		return false, nil
	}
	f.keys[key] = struct{}{}
	return true, nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.keys, key)
	return nil
}

func (f *fakeIdempotency) isClaimed(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.keys[key]
	return ok
}

// failingTransactor fails every transaction without calling fn.
type failingTransactor struct {
	err error
}

func (t failingTransactor) WithinTx(context.Context, func(port.Repositories) error) error {
	return t.err
}
