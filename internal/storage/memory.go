package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/freshmart-cart/internal/port"
)

// Memory keeps slots in process memory. It is the default backend for local
// runs and the stand-in for persistent storage in tests.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
}

var _ port.SlotRepository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		slots: make(map[string][]byte),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	value, found := m.slots[key]
	if !found {
		return nil, port.ErrSlotNotFound
	}

	return slices.Clone(value), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[key] = slices.Clone(value)

	return nil
}

func (m *Memory) Update(_ context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(slices.Clone(m.slots[key]))
	if err != nil {
		return fmt.Errorf("fn: %w", err)
	}
	m.slots[key] = slices.Clone(next)

	return nil
}
