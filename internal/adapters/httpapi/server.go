// Package httpapi is the HTTP adapter for the itinerary service: thin handlers
// that decode requests, delegate to the application service, and map app-layer
// errors onto the wire envelope.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lakbay-tourism/itinerary-api/internal/app/itineraries"
	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryrepo"
)

// ItineraryService defines the operations the handlers depend on. Declaring the
// interface here, in the consumer package, lets handler tests inject a double
// without standing up the service layer.
type ItineraryService interface {
	Create(ctx context.Context, owner domain.SubjectID, it domain.Itinerary) (itineraryrepo.Record, error)
	Get(ctx context.Context, owner domain.SubjectID, id domain.ItineraryID) (itineraryrepo.Record, error)
	Replace(ctx context.Context, owner domain.SubjectID, id domain.ItineraryID, it domain.Itinerary) (itineraryrepo.Record, error)
	List(ctx context.Context, owner domain.SubjectID) ([]itineraryrepo.Record, error)
	Delete(ctx context.Context, owner domain.SubjectID, id domain.ItineraryID) error
	Quote(ctx context.Context, owner domain.SubjectID, id domain.ItineraryID) (domain.CostBreakdown, error)
}

// Server holds the handler dependencies.
type Server struct {
	Itineraries ItineraryService
}

func NewServer(svc ItineraryService) *Server {
	return &Server{Itineraries: svc}
}

// ItineraryPayload is the request body for create and replace: the draft shape
// as the client holds it. A client-sent id is accepted but not authoritative.
type ItineraryPayload struct {
	ID    string          `json:"id,omitempty"`
	Title string          `json:"title,omitempty"`
	Start string          `json:"start,omitempty"`
	End   string          `json:"end,omitempty"`
	Days  domain.DaySpots `json:"days,omitempty"`
}

// ItineraryRecordResponse is the server representation returned by every
// successful itinerary endpoint.
type ItineraryRecordResponse struct {
	ID        string          `json:"id"`
	Owner     string          `json:"owner"`
	Title     string          `json:"title,omitempty"`
	Start     string          `json:"start,omitempty"`
	End       string          `json:"end,omitempty"`
	Days      domain.DaySpots `json:"days"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type listResponse struct {
	Itineraries []ItineraryRecordResponse `json:"itineraries"`
}

func (s *Server) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	owner, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	rec, err := s.Itineraries.Create(r.Context(), owner, payload.toDomain())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(rec))
}

func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	owner, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	rec, err := s.Itineraries.Get(r.Context(), owner, pathID(r))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (s *Server) ReplaceItinerary(w http.ResponseWriter, r *http.Request) {
	owner, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}
	rec, err := s.Itineraries.Replace(r.Context(), owner, pathID(r), payload.toDomain())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(rec))
}

func (s *Server) ListItineraries(w http.ResponseWriter, r *http.Request) {
	owner, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	recs, err := s.Itineraries.List(r.Context(), owner)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	out := listResponse{Itineraries: make([]ItineraryRecordResponse, 0, len(recs))}
	for _, rec := range recs {
		out.Itineraries = append(out.Itineraries, toRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	owner, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	if err := s.Itineraries.Delete(r.Context(), owner, pathID(r)); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) QuoteItinerary(w http.ResponseWriter, r *http.Request) {
	owner, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	bd, err := s.Itineraries.Quote(r.Context(), owner, pathID(r))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bd)
}

func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *itineraries.Error
	if errors.As(err, &ae) {
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
		return
	}
	writeError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func decodePayload(w http.ResponseWriter, r *http.Request) (ItineraryPayload, bool) {
	var p ItineraryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return ItineraryPayload{}, false
	}
	return p, true
}

func pathID(r *http.Request) domain.ItineraryID {
	return domain.ItineraryID(chi.URLParam(r, "id"))
}

func (p ItineraryPayload) toDomain() domain.Itinerary {
	return domain.Itinerary{
		ID:    domain.ItineraryID(p.ID),
		Title: p.Title,
		Start: p.Start,
		End:   p.End,
		Days:  p.Days,
	}
}

func toRecordResponse(rec itineraryrepo.Record) ItineraryRecordResponse {
	return ItineraryRecordResponse{
		ID:        string(rec.ID),
		Owner:     string(rec.Owner),
		Title:     rec.Title,
		Start:     rec.Start,
		End:       rec.End,
		Days:      rec.Days,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
