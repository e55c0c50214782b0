package draftslot

import (
	"context"
	"sync"
)

// Slot is an in-memory implementation of draftslot.Slot.
// It is safe for concurrent use.
type Slot struct {
	mu    sync.RWMutex
	value []byte
	set   bool
}

func NewSlot() *Slot {
	return &Slot{}
}

func (s *Slot) Get(ctx context.Context) ([]byte, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return nil, false, nil
	}
	return append([]byte(nil), s.value...), true, nil
}

func (s *Slot) Put(ctx context.Context, value []byte) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = append([]byte(nil), value...)
	s.set = true
	return nil
}

func (s *Slot) Delete(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = nil
	s.set = false
	return nil
}
