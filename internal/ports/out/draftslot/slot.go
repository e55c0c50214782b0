// Package draftslot defines the single-slot storage port backing the local draft
// store. One slot holds at most one serialized itinerary; writes are wholesale.
package draftslot

import "context"

// Slot is a durable single-value store.
//
// Get reports presence via the bool so "empty" is not an error. Implementations
// return an error only for storage-level failures; interpreting (or discarding)
// the stored bytes is the caller's concern.
type Slot interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Put(ctx context.Context, value []byte) error
	Delete(ctx context.Context) error
}
