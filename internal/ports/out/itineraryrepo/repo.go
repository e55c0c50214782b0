package itineraryrepo

import (
	"context"
	"time"

	"github.com/lakbay-tourism/itinerary-api/internal/domain"
)

// Record is the persistence shape used by the itinerary repository.
// It is not an HTTP DTO.
type Record struct {
	ID    domain.ItineraryID
	Owner domain.SubjectID

	Title string
	// Start and End keep the draft's free-form "YYYY-MM-DD" strings; empty = unset.
	Start string
	End   string

	Days domain.DaySpots

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted itineraries.
//
// Save replaces an existing record and returns ErrNotFound for an unknown id;
// it never creates. ListByOwner must return results deterministically ordered:
// CreatedAt ascending, then ID.
type Repository interface {
	Create(ctx context.Context, rec Record) error
	Save(ctx context.Context, rec Record) error

	GetByID(ctx context.Context, id domain.ItineraryID) (Record, error)
	ListByOwner(ctx context.Context, owner domain.SubjectID) ([]Record, error)

	Delete(ctx context.Context, id domain.ItineraryID) error
}
