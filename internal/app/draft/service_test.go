package draft_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memdraftslot "github.com/lakbay-tourism/itinerary-api/internal/adapters/memory/draftslot"
	"github.com/lakbay-tourism/itinerary-api/internal/app/draft"
	"github.com/lakbay-tourism/itinerary-api/internal/domain"
)

func newService(t *testing.T) (*draft.Service, *memdraftslot.Slot) {
	t.Helper()
	slot := memdraftslot.NewSlot()
	svc := draft.NewService(slot, nil)
	n := 0
	svc.SetNewIDForTest(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
	return svc, slot
}

func TestRead_EmptyAndCorruptSlots(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, slot := newService(t)
	assert.Nil(t, svc.Read(ctx), "empty slot reads as no draft")

	require.NoError(t, slot.Put(ctx, []byte("{not json")))
	assert.Nil(t, svc.Read(ctx), "corrupt content reads as no draft")
}

func TestRead_NormalizesMissingDays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, slot := newService(t)
	require.NoError(t, slot.Put(ctx, []byte(`{"id":"i1","title":"Loop"}`)))

	first := svc.Read(ctx)
	require.NotNil(t, first)
	assert.Equal(t, domain.DaySpots{1: {}}, first.Days)

	second := svc.Read(ctx)
	require.NotNil(t, second)
	assert.Equal(t, first, second, "normalization is idempotent")
	assert.Equal(t, domain.ItineraryID("i1"), second.ID)
	assert.Equal(t, "Loop", second.Title)
}

func TestAppendSpot_OnEmptyStoreSeedsTargetDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newService(t)
	it, sp, err := svc.AppendSpot(ctx, draft.SpotInput{Title: "X"}, 2)
	require.NoError(t, err)
	require.NotNil(t, it)
	require.NotNil(t, sp)

	assert.NotEmpty(t, sp.ID)
	require.Len(t, it.Days[2], 1)
	assert.Equal(t, "X", it.Days[2][0].Title)
	assert.Equal(t, sp.ID, it.Days[2][0].ID)
	assert.Empty(t, it.Days[1], "day 1 must stay absent or empty")

	// The stored value matches what was returned.
	stored := svc.Read(ctx)
	require.NotNil(t, stored)
	require.Len(t, stored.Days[2], 1)
	assert.Equal(t, sp.ID, stored.Days[2][0].ID)
}

func TestAppendSpot_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newService(t)
	for _, title := range []string{"first", "second", "third"} {
		_, _, err := svc.AppendSpot(ctx, draft.SpotInput{Title: title}, 1)
		require.NoError(t, err)
	}
	it := svc.Read(ctx)
	require.NotNil(t, it)
	require.Len(t, it.Days[1], 3)
	assert.Equal(t, "first", it.Days[1][0].Title)
	assert.Equal(t, "second", it.Days[1][1].Title)
	assert.Equal(t, "third", it.Days[1][2].Title)
}

// seedDuplicate stores a draft where spot id "S" sits in days 1 and 3.
func seedDuplicate(t *testing.T, svc *draft.Service) {
	t.Helper()
	err := svc.Write(context.Background(), domain.Itinerary{
		ID: "i1",
		Days: domain.DaySpots{
			1: {{ID: "S", Title: "Falls"}, {ID: "K", Title: "Keep me"}},
			3: {{ID: "S", Title: "Falls"}},
		},
	})
	require.NoError(t, err)
}

func TestRemoveSpot_WithoutDayHintIsGlobal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newService(t)
	seedDuplicate(t, svc)

	it, err := svc.RemoveSpot(ctx, "S")
	require.NoError(t, err)
	require.NotNil(t, it)

	require.Len(t, it.Days[1], 1)
	assert.Equal(t, domain.SpotID("K"), it.Days[1][0].ID)
	assert.Empty(t, it.Days[3])
}

func TestRemoveSpotInDay_IsScoped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newService(t)
	seedDuplicate(t, svc)

	it, err := svc.RemoveSpotInDay(ctx, "S", 1)
	require.NoError(t, err)
	require.NotNil(t, it)

	require.Len(t, it.Days[1], 1)
	assert.Equal(t, domain.SpotID("K"), it.Days[1][0].ID)
	require.Len(t, it.Days[3], 1, "day 3 still contains S")
	assert.Equal(t, domain.SpotID("S"), it.Days[3][0].ID)
}

func TestRemoveSpot_NoDraftIsNoOp(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	it, err := svc.RemoveSpot(context.Background(), "S")
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestSetSpotTime_TouchesOnlyTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newService(t)
	price := 150.0
	require.NoError(t, svc.Write(ctx, domain.Itinerary{
		ID: "i1",
		Days: domain.DaySpots{
			1: {{ID: "S", Title: "Falls", Time: "08:00", PricePerNight: &price}},
			2: {{ID: "S", Title: "Falls", Time: "08:00"}},
		},
	}))

	it, err := svc.SetSpotTime(ctx, "S", "10:30")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, "10:30", it.Days[1][0].Time)
	assert.Equal(t, "10:30", it.Days[2][0].Time)
	assert.Equal(t, "Falls", it.Days[1][0].Title)
	require.NotNil(t, it.Days[1][0].PricePerNight)
	assert.Equal(t, 150.0, *it.Days[1][0].PricePerNight)

	scoped, err := svc.SetSpotTimeInDay(ctx, "S", "14:00", 2)
	require.NoError(t, err)
	require.NotNil(t, scoped)
	assert.Equal(t, "10:30", scoped.Days[1][0].Time, "day 1 untouched")
	assert.Equal(t, "14:00", scoped.Days[2][0].Time)
}

func TestSetSpotTime_NoDraftIsNoOp(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	it, err := svc.SetSpotTime(context.Background(), "S", "10:30")
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestCreateOrReplace_DiscardsPreviousDraft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, _ := newService(t)
	_, _, err := svc.AppendSpot(ctx, draft.SpotInput{Title: "old"}, 1)
	require.NoError(t, err)

	it, err := svc.CreateOrReplace(ctx, draft.NewItineraryInput{Title: "Fresh plan"})
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, domain.DaySpots{1: {}}, it.Days)

	stored := svc.Read(ctx)
	require.NotNil(t, stored)
	assert.Equal(t, "Fresh plan", stored.Title)
	assert.Empty(t, stored.Days[1], "previous spots are gone")
}
