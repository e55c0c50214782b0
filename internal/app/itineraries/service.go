// Package itineraries is the hosted side of the itinerary service: owner-scoped
// whole-record CRUD over the durable multi-trip history.
package itineraries

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/clock"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryrepo"
)

type Service struct {
	repo itineraryrepo.Repository
	clk  clock.Clock

	newID func() domain.ItineraryID
}

func NewService(repo itineraryrepo.Repository, clk clock.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newID: func() domain.ItineraryID {
			return domain.ItineraryID(uuid.NewString())
		},
	}
}

// SetNewIDForTest overrides record id generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewIDForTest(fn func() domain.ItineraryID) {
	if fn != nil {
		s.newID = fn
	}
}

// Create persists a new record for owner. The server assigns the final id; a
// client-generated draft id in the payload is ignored, which is what lets the
// client adopt the canonical id afterwards.
func (s *Service) Create(ctx context.Context, owner domain.SubjectID, it domain.Itinerary) (itineraryrepo.Record, error) {
	if owner == "" {
		return itineraryrepo.Record{}, &Error{Status: 401, Code: "UNAUTHORIZED", Message: "missing subject"}
	}
	if err := validateDays(it.Days); err != nil {
		return itineraryrepo.Record{}, err
	}

	now := s.clk.Now()
	norm := it.Normalized()
	rec := itineraryrepo.Record{
		ID:        s.newID(),
		Owner:     owner,
		Title:     norm.Title,
		Start:     norm.Start,
		End:       norm.End,
		Days:      norm.Days,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, itineraryrepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return itineraryrepo.Record{}, &Error{Status: 409, Code: "ITINERARY_ID_CONFLICT", Message: "itinerary id conflict"}
		}
		return itineraryrepo.Record{}, err
	}
	return rec, nil
}

// Get returns the record when it exists and belongs to owner. Rows owned by
// someone else answer 404, not 403, so ownership is not probeable.
func (s *Service) Get(ctx context.Context, owner domain.SubjectID, id domain.ItineraryID) (itineraryrepo.Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, itineraryrepo.ErrNotFound) {
			return itineraryrepo.Record{}, notFoundErr()
		}
		return itineraryrepo.Record{}, err
	}
	if rec.Owner != owner {
		return itineraryrepo.Record{}, notFoundErr()
	}
	return rec, nil
}

// Replace overwrites the record wholesale with the submitted draft state.
// There is no patch semantics and no version check: last write wins.
func (s *Service) Replace(ctx context.Context, owner domain.SubjectID, id domain.ItineraryID, it domain.Itinerary) (itineraryrepo.Record, error) {
	rec, err := s.Get(ctx, owner, id)
	if err != nil {
		return itineraryrepo.Record{}, err
	}
	if err := validateDays(it.Days); err != nil {
		return itineraryrepo.Record{}, err
	}

	norm := it.Normalized()
	rec.Title = norm.Title
	rec.Start = norm.Start
	rec.End = norm.End
	rec.Days = norm.Days
	rec.UpdatedAt = s.clk.Now()
	if err := s.repo.Save(ctx, rec); err != nil {
		return itineraryrepo.Record{}, err
	}
	return rec, nil
}

// List returns owner's records, CreatedAt ascending then id.
func (s *Service) List(ctx context.Context, owner domain.SubjectID) ([]itineraryrepo.Record, error) {
	if owner == "" {
		return nil, &Error{Status: 401, Code: "UNAUTHORIZED", Message: "missing subject"}
	}
	return s.repo.ListByOwner(ctx, owner)
}

// Delete removes the record, owner-scoped like Get.
func (s *Service) Delete(ctx context.Context, owner domain.SubjectID, id domain.ItineraryID) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, itineraryrepo.ErrNotFound) {
		return err
	}
	return nil
}

// Quote prices the stored record using its own dates for the nights count.
func (s *Service) Quote(ctx context.Context, owner domain.SubjectID, id domain.ItineraryID) (domain.CostBreakdown, error) {
	rec, err := s.Get(ctx, owner, id)
	if err != nil {
		return domain.CostBreakdown{}, err
	}
	it := domain.Itinerary{
		ID:    rec.ID,
		Title: rec.Title,
		Start: rec.Start,
		End:   rec.End,
		Days:  rec.Days,
	}
	return domain.Quote(it), nil
}

func validateDays(days domain.DaySpots) error {
	for day := range days {
		if day < 1 {
			return &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid day index",
				Details: map[string]any{"days": "day indices must be positive"},
			}
		}
	}
	return nil
}

func notFoundErr() *Error {
	return &Error{Status: 404, Code: "ITINERARY_NOT_FOUND", Message: "itinerary not found"}
}
