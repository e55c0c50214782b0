package httpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakbay-tourism/itinerary-api/internal/adapters/httpclient"
	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryclient"
)

func TestFind_DecodesRecord(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/itineraries/it-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":        "it-1",
			"owner":     "alice",
			"title":     "Coastal Loop",
			"start":     "2024-07-21",
			"end":       "2024-07-23",
			"days":      map[string]any{"1": []map[string]any{{"id": "s1", "title": "Lighthouse"}}},
			"createdAt": time.Unix(1700000000, 0).UTC(),
			"updatedAt": time.Unix(1700000100, 0).UTC(),
		})
	}))
	t.Cleanup(ts.Close)

	c := httpclient.NewClient(ts.URL, httpclient.StaticToken("tok-123"), nil)
	rec, err := c.Find(context.Background(), "it-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, domain.ItineraryID("it-1"), rec.Itinerary.ID)
	assert.Equal(t, domain.SubjectID("alice"), rec.Owner)
	require.Len(t, rec.Itinerary.Days[1], 1)
	assert.Equal(t, "Lighthouse", rec.Itinerary.Days[1][0].Title)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), rec.CreatedAt)
}

func TestFind_404MapsToErrNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"ITINERARY_NOT_FOUND","message":"itinerary not found"}}`))
	}))
	t.Cleanup(ts.Close)

	c := httpclient.NewClient(ts.URL, nil, nil)
	_, err := c.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, itineraryclient.ErrNotFound)
}

func TestCreate_SendsDraftAndRequiresOwner(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/itineraries", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"srv-9","owner":"alice","days":{"1":[]}}`))
	}))
	t.Cleanup(ts.Close)

	c := httpclient.NewClient(ts.URL, httpclient.StaticToken("tok"), nil)

	_, err := c.Create(context.Background(), domain.Itinerary{}, "")
	require.Error(t, err, "unauthenticated create is refused client-side")

	rec, err := c.Create(context.Background(), domain.Itinerary{
		ID:    "local-1",
		Title: "Weekend",
		Days:  domain.DaySpots{1: {}},
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, "local-1", gotBody["id"], "draft id is sent; the server decides whether to keep it")
	assert.Equal(t, domain.ItineraryID("srv-9"), rec.Itinerary.ID)
}

func TestUpdate_NonOKSurfacesEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"invalid day index"}}`))
	}))
	t.Cleanup(ts.Close)

	c := httpclient.NewClient(ts.URL, nil, nil)
	_, err := c.Update(context.Background(), "it-1", domain.Itinerary{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, itineraryclient.ErrNotFound))
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
}

func TestTokenSourceErrorAbortsRequest(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(ts.Close)

	c := httpclient.NewClient(ts.URL, func(context.Context) (string, error) {
		return "", errors.New("token store unavailable")
	}, nil)
	_, err := c.Find(context.Background(), "it-1")
	require.Error(t, err)
	assert.False(t, called, "request must not be issued without a resolved token")
}
