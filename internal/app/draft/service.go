// Package draft is the local draft store: it owns the single "current itinerary"
// value held in an injected storage slot and provides the synchronous operations
// the planning flow mutates it with. It never talks to the network.
package draft

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/draftslot"
)

type Service struct {
	slot draftslot.Slot
	log  *slog.Logger

	newID func() string
}

func NewService(slot draftslot.Slot, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		slot:  slot,
		log:   log,
		newID: uuid.NewString,
	}
}

// SetNewIDForTest overrides id generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewIDForTest(fn func() string) {
	if fn != nil {
		s.newID = fn
	}
}

// NewItineraryInput seeds CreateOrReplace. All fields are optional.
type NewItineraryInput struct {
	Title string
	Start string
	End   string
	Days  domain.DaySpots
}

// SpotInput describes a spot before the store assigns it an id.
type SpotInput struct {
	Title         string
	Image         string
	Location      string
	Rating        *float64
	Time          string
	PricePerNight *float64
	Latitude      *float64
	Longitude     *float64
}

// Read returns the stored draft, normalized, or nil when no draft exists.
//
// Storage failures and unreadable content both degrade to nil: the planning flow
// must keep working when the slot is unavailable, so reads never report an error.
func (s *Service) Read(ctx context.Context) *domain.Itinerary {
	b, ok, err := s.slot.Get(ctx)
	if err != nil {
		s.log.DebugContext(ctx, "draft slot unavailable, treating as empty", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var it domain.Itinerary
	if err := json.Unmarshal(b, &it); err != nil {
		s.log.DebugContext(ctx, "draft slot holds unreadable content, treating as empty", "error", err)
		return nil
	}
	it = it.Normalized()
	return &it
}

// Write replaces the stored draft wholesale.
func (s *Service) Write(ctx context.Context, it domain.Itinerary) error {
	b, err := json.Marshal(it.Normalized())
	if err != nil {
		return err
	}
	return s.slot.Put(ctx, b)
}

// Clear removes the stored draft entirely.
func (s *Service) Clear(ctx context.Context) error {
	return s.slot.Delete(ctx)
}

// CreateOrReplace builds a brand-new draft with a fresh id, discarding any
// previous one, and returns the stored value.
func (s *Service) CreateOrReplace(ctx context.Context, in NewItineraryInput) (*domain.Itinerary, error) {
	it := domain.Itinerary{
		ID:    domain.ItineraryID(s.newID()),
		Title: in.Title,
		Start: in.Start,
		End:   in.End,
		Days:  in.Days.Clone(),
	}.Normalized()
	if err := s.Write(ctx, it); err != nil {
		return nil, err
	}
	return &it, nil
}

// AppendSpot assigns the spot an id and appends it to the end of the target day,
// creating the day (and the draft itself) as needed. Day indices below 1 target
// day 1. Both the updated draft and the new entry are returned so callers can
// chain a remote sync using the generated id.
func (s *Service) AppendSpot(ctx context.Context, in SpotInput, day int) (*domain.Itinerary, *domain.SpotEntry, error) {
	if day < 1 {
		day = 1
	}
	entry := domain.SpotEntry{
		ID:            domain.SpotID(s.newID()),
		Title:         in.Title,
		Image:         in.Image,
		Location:      in.Location,
		Rating:        in.Rating,
		Time:          in.Time,
		PricePerNight: in.PricePerNight,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
	}

	var it domain.Itinerary
	if cur := s.Read(ctx); cur != nil {
		it = cur.Clone()
	} else {
		it = domain.Itinerary{
			ID:   domain.ItineraryID(s.newID()),
			Days: domain.DaySpots{day: []domain.SpotEntry{}},
		}
	}
	if it.Days == nil {
		it.Days = domain.DaySpots{}
	}
	it.Days[day] = append(it.Days[day], entry.Clone())

	if err := s.Write(ctx, it); err != nil {
		return nil, nil, err
	}
	return &it, &entry, nil
}

// RemoveSpot removes the id from every day. Entries only ever match by id;
// duplicates of the same id across days all go. Returns nil when no draft exists.
func (s *Service) RemoveSpot(ctx context.Context, spotID domain.SpotID) (*domain.Itinerary, error) {
	return s.filterSpots(ctx, spotID, nil)
}

// RemoveSpotInDay removes the id from the given day only.
func (s *Service) RemoveSpotInDay(ctx context.Context, spotID domain.SpotID, day int) (*domain.Itinerary, error) {
	return s.filterSpots(ctx, spotID, &day)
}

// SetSpotTime replaces the Time field on every entry matching the id, in every
// day, leaving all other fields untouched. Returns nil when no draft exists.
func (s *Service) SetSpotTime(ctx context.Context, spotID domain.SpotID, hhmm string) (*domain.Itinerary, error) {
	return s.retime(ctx, spotID, hhmm, nil)
}

// SetSpotTimeInDay is SetSpotTime scoped to one day.
func (s *Service) SetSpotTimeInDay(ctx context.Context, spotID domain.SpotID, hhmm string, day int) (*domain.Itinerary, error) {
	return s.retime(ctx, spotID, hhmm, &day)
}

func (s *Service) filterSpots(ctx context.Context, spotID domain.SpotID, day *int) (*domain.Itinerary, error) {
	cur := s.Read(ctx)
	if cur == nil {
		return nil, nil
	}
	it := cur.Clone()
	for d, spots := range it.Days {
		if day != nil && d != *day {
			continue
		}
		kept := make([]domain.SpotEntry, 0, len(spots))
		for _, sp := range spots {
			if sp.ID == spotID {
				continue
			}
			kept = append(kept, sp)
		}
		it.Days[d] = kept
	}
	if err := s.Write(ctx, it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Service) retime(ctx context.Context, spotID domain.SpotID, hhmm string, day *int) (*domain.Itinerary, error) {
	cur := s.Read(ctx)
	if cur == nil {
		return nil, nil
	}
	it := cur.Clone()
	for d, spots := range it.Days {
		if day != nil && d != *day {
			continue
		}
		for i := range spots {
			if spots[i].ID == spotID {
				spots[i].Time = hhmm
			}
		}
	}
	if err := s.Write(ctx, it); err != nil {
		return nil, err
	}
	return &it, nil
}
