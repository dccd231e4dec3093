package repository

import (
	"context"
	"sync"
)

// MemorySlotRepository keeps slots in a map. Nothing survives the process.
type MemorySlotRepository struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// NewMemorySlotRepository creates an empty MemorySlotRepository.
func NewMemorySlotRepository() *MemorySlotRepository {
	return &MemorySlotRepository{slots: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (r *MemorySlotRepository) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key.
func (r *MemorySlotRepository) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slots == nil {
		r.slots = make(map[string][]byte)
	}
	r.slots[key] = append([]byte(nil), value...)
	return nil
}
