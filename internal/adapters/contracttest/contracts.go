// Package contracttest holds behavioral suites shared by every adapter of a
// given port. Each adapter package runs the suite against its own factory so
// memory and real backends stay interchangeable.
package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	draftslotport "github.com/lakbay-tourism/itinerary-api/internal/ports/out/draftslot"
	itineraryrepoport "github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryrepo"
)

type CleanupFunc = func()

type SlotFactory func(t *testing.T) (draftslotport.Slot, CleanupFunc)
type RepoFactory func(t *testing.T) (itineraryrepoport.Repository, CleanupFunc)

// RunDraftSlot exercises the single-slot storage contract.
func RunDraftSlot(t *testing.T, newSlot SlotFactory) {
	t.Helper()
	ctx := context.Background()

	slot, cleanup := newSlot(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Empty slot: absent, not an error.
	_, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Put then Get round-trips the exact bytes.
	require.NoError(t, slot.Put(ctx, []byte(`{"id":"a"}`)))
	got, ok, err := slot.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"a"}`, string(got))

	// Put replaces wholesale.
	require.NoError(t, slot.Put(ctx, []byte(`{"id":"b"}`)))
	got, ok, err = slot.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"b"}`, string(got))

	// Delete empties the slot; deleting again is a no-op.
	require.NoError(t, slot.Delete(ctx))
	_, ok, err = slot.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, slot.Delete(ctx))
}

// RunItineraryRepository exercises the repository contract.
func RunItineraryRepository(t *testing.T, newRepo RepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1700000000, 0).UTC()
	mk := func(owner domain.SubjectID, createdAt time.Time) itineraryrepoport.Record {
		return itineraryrepoport.Record{
			ID:        domain.ItineraryID(uuid.NewString()),
			Owner:     owner,
			Title:     "Coast loop",
			Start:     "2024-07-21",
			End:       "2024-07-24",
			Days:      domain.DaySpots{1: {{ID: "s1", Title: "Falls", Time: "08:00"}}},
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
	}

	// GetByID on an unknown id.
	_, err := repo.GetByID(ctx, domain.ItineraryID(uuid.NewString()))
	require.ErrorIs(t, err, itineraryrepoport.ErrNotFound)

	// Save never creates: an unknown id reports not found.
	require.ErrorIs(t, repo.Save(ctx, mk("owner-a", now)), itineraryrepoport.ErrNotFound)

	// Create then read back.
	rec := mk("owner-a", now)
	require.NoError(t, repo.Create(ctx, rec))
	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Owner, got.Owner)
	require.Len(t, got.Days[1], 1)
	assert.Equal(t, domain.SpotID("s1"), got.Days[1][0].ID)

	// Create with a duplicate id conflicts.
	require.ErrorIs(t, repo.Create(ctx, rec), itineraryrepoport.ErrAlreadyExists)

	// Save replaces the whole record.
	rec.Title = "Coast loop v2"
	rec.Days = domain.DaySpots{1: {}, 2: {{ID: "s2", Title: "Plaza"}}}
	rec.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, repo.Save(ctx, rec))
	got, err = repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coast loop v2", got.Title)
	assert.Empty(t, got.Days[1])
	require.Len(t, got.Days[2], 1)

	// ListByOwner is scoped and ordered CreatedAt then id.
	older := mk("owner-b", now.Add(-time.Hour))
	newer := mk("owner-b", now.Add(time.Hour))
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, older))
	recs, err := repo.ListByOwner(ctx, "owner-b")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, older.ID, recs[0].ID)
	assert.Equal(t, newer.ID, recs[1].ID)

	// Delete removes; deleting again reports not found.
	require.NoError(t, repo.Delete(ctx, rec.ID))
	_, err = repo.GetByID(ctx, rec.ID)
	require.ErrorIs(t, err, itineraryrepoport.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, rec.ID), itineraryrepoport.ErrNotFound)
}
