// Package planner is the reconciliation layer: it mirrors every local draft
// mutation to the remote itinerary service without making the local mutation
// depend on remote success. It holds no draft state of its own.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lakbay-tourism/itinerary-api/internal/app/draft"
	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryclient"
)

var (
	// ErrNotAuthenticated means no owner identity was available for a remote
	// sync that the caller explicitly asked to be remote-confirmed.
	ErrNotAuthenticated = errors.New("no authenticated identity for remote sync")

	// ErrNoDraft means there is no local draft to operate on.
	ErrNoDraft = errors.New("no itinerary draft")
)

// ClearGrace is how long a confirmed booking's draft stays readable before the
// scheduled clear runs, so the confirmation screen can still render it.
const ClearGrace = 1200 * time.Millisecond

type Service struct {
	draft  *draft.Service
	remote itineraryclient.Client
	log    *slog.Logger

	schedule func(d time.Duration, fn func())
}

func NewService(draftSvc *draft.Service, remote itineraryclient.Client, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		draft:  draftSvc,
		remote: remote,
		log:    log,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// SetScheduler overrides how the deferred draft clear is run. The default fires
// on a timer goroutine, which suits a long-lived server; short-lived callers
// like the CLI must install a synchronous scheduler so the clear still happens
// before the process exits. Tests use it to run or suppress the clear
// deterministically.
func (s *Service) SetScheduler(fn func(d time.Duration, fn func())) {
	if fn != nil {
		s.schedule = fn
	}
}

// StartPlan creates a fresh local draft, discarding the previous one, then
// mirrors it to the remote service. The local draft is always created; when no
// owner identity is available the draft is returned together with
// ErrNotAuthenticated so the caller can warn that the plan is local-only.
// Remote I/O failures are swallowed: trip assembly must work offline.
func (s *Service) StartPlan(ctx context.Context, owner domain.SubjectID, in draft.NewItineraryInput) (*domain.Itinerary, error) {
	it, err := s.draft.CreateOrReplace(ctx, in)
	if err != nil {
		return nil, err
	}
	if owner == "" {
		return it, ErrNotAuthenticated
	}
	return s.mirror(ctx, owner, *it), nil
}

// AddSpot appends the spot locally and mirrors the result in the background.
func (s *Service) AddSpot(ctx context.Context, owner domain.SubjectID, in draft.SpotInput, day int) (*domain.Itinerary, *domain.SpotEntry, error) {
	it, sp, err := s.draft.AppendSpot(ctx, in, day)
	if err != nil {
		return nil, nil, err
	}
	return s.backgroundMirror(ctx, owner, it), sp, nil
}

// RemoveSpot removes the spot from every day locally, then mirrors.
func (s *Service) RemoveSpot(ctx context.Context, owner domain.SubjectID, spotID domain.SpotID) (*domain.Itinerary, error) {
	it, err := s.draft.RemoveSpot(ctx, spotID)
	if err != nil || it == nil {
		return it, err
	}
	return s.backgroundMirror(ctx, owner, it), nil
}

// RemoveSpotInDay removes the spot from one day locally, then mirrors.
func (s *Service) RemoveSpotInDay(ctx context.Context, owner domain.SubjectID, spotID domain.SpotID, day int) (*domain.Itinerary, error) {
	it, err := s.draft.RemoveSpotInDay(ctx, spotID, day)
	if err != nil || it == nil {
		return it, err
	}
	return s.backgroundMirror(ctx, owner, it), nil
}

// SetSpotTime updates the spot's time in every day locally, then mirrors.
func (s *Service) SetSpotTime(ctx context.Context, owner domain.SubjectID, spotID domain.SpotID, hhmm string) (*domain.Itinerary, error) {
	it, err := s.draft.SetSpotTime(ctx, spotID, hhmm)
	if err != nil || it == nil {
		return it, err
	}
	return s.backgroundMirror(ctx, owner, it), nil
}

// SetSpotTimeInDay updates the spot's time in one day locally, then mirrors.
func (s *Service) SetSpotTimeInDay(ctx context.Context, owner domain.SubjectID, spotID domain.SpotID, hhmm string, day int) (*domain.Itinerary, error) {
	it, err := s.draft.SetSpotTimeInDay(ctx, spotID, hhmm, day)
	if err != nil || it == nil {
		return it, err
	}
	return s.backgroundMirror(ctx, owner, it), nil
}

// AdoptServerState overwrites the local draft with the server's representation,
// id included, so subsequent mutations reconcile against the correct row.
func (s *Service) AdoptServerState(ctx context.Context, rec itineraryclient.Record) (*domain.Itinerary, error) {
	it := rec.Itinerary.Normalized()
	if err := s.draft.Write(ctx, it); err != nil {
		return nil, err
	}
	return &it, nil
}

// ConfirmBooking runs one final find-or-create-or-update sync and, on success,
// schedules the local draft to clear after ClearGrace. On any failure the error
// is returned and the draft is left exactly as it was: silently losing this
// specific sync would falsely tell the user their trip was booked.
func (s *Service) ConfirmBooking(ctx context.Context, owner domain.SubjectID) error {
	it := s.draft.Read(ctx)
	if it == nil {
		return ErrNoDraft
	}
	if owner == "" {
		return ErrNotAuthenticated
	}

	rec, err := s.sync(ctx, owner, *it)
	if err != nil {
		s.log.ErrorContext(ctx, "confirm booking: final sync failed", "itinerary", it.ID, "error", err)
		return fmt.Errorf("confirm booking: %w", err)
	}
	if rec.Itinerary.ID != it.ID {
		if _, err := s.AdoptServerState(ctx, rec); err != nil {
			s.log.WarnContext(ctx, "confirm booking: could not adopt server state", "error", err)
		}
	}

	s.schedule(ClearGrace, func() {
		if err := s.draft.Clear(context.Background()); err != nil {
			s.log.WarnContext(ctx, "confirm booking: deferred clear failed", "error", err)
		}
	})
	return nil
}

// sync issues the find-or-create-or-update sequence for the current draft state
// and returns the server record. Not-found on Find means "safe to create".
func (s *Service) sync(ctx context.Context, owner domain.SubjectID, it domain.Itinerary) (itineraryclient.Record, error) {
	_, err := s.remote.Find(ctx, it.ID)
	switch {
	case errors.Is(err, itineraryclient.ErrNotFound):
		return s.remote.Create(ctx, it, owner)
	case err != nil:
		return itineraryclient.Record{}, err
	default:
		return s.remote.Update(ctx, it.ID, it)
	}
}

// mirror syncs and adopts a changed server id; failures are logged and swallowed.
// The returned value is the adopted server state when adoption happened,
// otherwise the local value unchanged.
func (s *Service) mirror(ctx context.Context, owner domain.SubjectID, it domain.Itinerary) *domain.Itinerary {
	rec, err := s.sync(ctx, owner, it)
	if err != nil {
		s.log.WarnContext(ctx, "itinerary sync failed, keeping local draft", "itinerary", it.ID, "error", err)
		return &it
	}
	if rec.Itinerary.ID != it.ID {
		adopted, err := s.AdoptServerState(ctx, rec)
		if err != nil {
			s.log.WarnContext(ctx, "could not adopt server state", "error", err)
			return &it
		}
		return adopted
	}
	return &it
}

// backgroundMirror is mirror for ambient mutations: a missing identity skips
// the sync entirely instead of surfacing an error.
func (s *Service) backgroundMirror(ctx context.Context, owner domain.SubjectID, it *domain.Itinerary) *domain.Itinerary {
	if owner == "" {
		s.log.DebugContext(ctx, "skipping itinerary sync, no authenticated identity", "itinerary", it.ID)
		return it
	}
	return s.mirror(ctx, owner, *it)
}
