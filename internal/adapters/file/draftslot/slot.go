// Package draftslot implements the draft slot as a single JSON file on disk,
// the durable storage used by the planner CLI between invocations.
package draftslot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Slot stores the draft in one file at a fixed path. Writes go through a
// temp file + rename so a crash mid-write never leaves a torn value.
type Slot struct {
	path string
}

func NewSlot(path string) *Slot {
	return &Slot{path: path}
}

func (s *Slot) Get(ctx context.Context) ([]byte, bool, error) {
	_ = ctx
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read draft slot: %w", err)
	}
	return b, true, nil
}

func (s *Slot) Put(ctx context.Context, value []byte) error {
	_ = ctx
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create draft slot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".draft-*")
	if err != nil {
		return fmt.Errorf("write draft slot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write draft slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write draft slot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write draft slot: %w", err)
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context) error {
	_ = ctx
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
