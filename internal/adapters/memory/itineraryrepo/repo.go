package itineraryrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryrepo"
)

// Repo is an in-memory implementation of itineraryrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ItineraryID]itineraryrepo.Record
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ItineraryID]itineraryrepo.Record),
	}
}

func (r *Repo) Create(ctx context.Context, rec itineraryrepo.Record) error {
	_ = ctx
	if rec.ID == "" {
		return itineraryrepo.ErrAlreadyExists // treat empty id as invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.ID]; ok {
		return itineraryrepo.ErrAlreadyExists
	}
	r.byID[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *Repo) Save(ctx context.Context, rec itineraryrepo.Record) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[rec.ID]; !ok {
		return itineraryrepo.ErrNotFound
	}
	r.byID[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ItineraryID) (itineraryrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byID[id]
	if !ok {
		return itineraryrepo.Record{}, itineraryrepo.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.SubjectID) ([]itineraryrepo.Record, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]itineraryrepo.Record, 0)
	for _, rec := range r.byID {
		if rec.Owner == owner {
			out = append(out, cloneRecord(rec))
		}
	}
	sortRecords(out)
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ItineraryID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return itineraryrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func cloneRecord(rec itineraryrepo.Record) itineraryrepo.Record {
	cp := rec
	cp.Days = rec.Days.Clone()
	return cp
}

func sortRecords(recs []itineraryrepo.Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
}
