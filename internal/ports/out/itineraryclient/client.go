// Package itineraryclient defines the client-side contract of the remote
// itinerary service: owner-scoped whole-record CRUD over durable trip history.
package itineraryclient

import (
	"context"
	"time"

	"github.com/lakbay-tourism/itinerary-api/internal/domain"
)

// Record is the server's representation of a persisted itinerary.
type Record struct {
	Itinerary domain.Itinerary
	Owner     domain.SubjectID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client reaches the remote itinerary service.
//
// Update replaces the whole record; there is no patch operation and no version
// field, so concurrent writers resolve by last write wins.
type Client interface {
	// Find returns ErrNotFound for an unknown id; callers treat that as
	// "safe to create", not a failure.
	Find(ctx context.Context, id domain.ItineraryID) (Record, error)

	// Create persists a new record for owner. The server assigns the final id,
	// which may differ from the draft's client-generated one.
	Create(ctx context.Context, it domain.Itinerary, owner domain.SubjectID) (Record, error)

	Update(ctx context.Context, id domain.ItineraryID, it domain.Itinerary) (Record, error)
}
