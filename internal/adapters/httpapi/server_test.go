package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakbay-tourism/itinerary-api/internal/adapters/httpapi"
	memrepo "github.com/lakbay-tourism/itinerary-api/internal/adapters/memory/itineraryrepo"
	"github.com/lakbay-tourism/itinerary-api/internal/app/itineraries"
	"github.com/lakbay-tourism/itinerary-api/internal/platform/auth/tokens"
	platformclock "github.com/lakbay-tourism/itinerary-api/internal/platform/clock"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := itineraries.NewService(memrepo.NewRepo(), platformclock.NewSystemClock())
	handler := httpapi.NewRouter(httpapi.NewServer(svc), httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewDevAuthMiddleware(""),
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, method, url, subject string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeRecord(t *testing.T, resp *http.Response) httpapi.ItineraryRecordResponse {
	t.Helper()
	var rec httpapi.ItineraryRecordResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	return rec
}

func TestHealthzUnauthenticated(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateGetRoundtrip(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/itineraries", "alice", map[string]any{
		"id":    "draft-id-from-client",
		"title": "Coastal Loop",
		"start": "2024-07-21",
		"end":   "2024-07-23",
		"days": map[string]any{
			"1": []map[string]any{{"id": "s1", "title": "Lighthouse", "time": "09:00"}},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeRecord(t, resp)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "draft-id-from-client", created.ID)
	assert.Equal(t, "alice", created.Owner)

	resp = doRequest(t, http.MethodGet, ts.URL+"/itineraries/"+created.ID, "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeRecord(t, resp)
	assert.Equal(t, "Coastal Loop", got.Title)
	require.Len(t, got.Days[1], 1)
	assert.Equal(t, "Lighthouse", got.Days[1][0].Title)
}

func TestGetForeignRecordIs404(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/itineraries", "alice", map[string]any{"title": "Mine"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeRecord(t, resp)

	resp = doRequest(t, http.MethodGet, ts.URL+"/itineraries/"+created.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var env httpapi.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, "ITINERARY_NOT_FOUND", env.Error.Code)
}

func TestReplaceOverwrites(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/itineraries", "alice", map[string]any{
		"title": "Before",
		"days":  map[string]any{"1": []map[string]any{{"id": "s1", "title": "Old"}}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeRecord(t, resp)

	resp = doRequest(t, http.MethodPut, ts.URL+"/itineraries/"+created.ID, "alice", map[string]any{
		"title": "After",
		"days":  map[string]any{"2": []map[string]any{{"id": "s2", "title": "New"}}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeRecord(t, resp)
	assert.Equal(t, "After", updated.Title)
	assert.Empty(t, updated.Days[1])
	require.Len(t, updated.Days[2], 1)
}

func TestListScopedToSubject(t *testing.T) {
	ts := newTestServer(t)

	for _, title := range []string{"one", "two"} {
		resp := doRequest(t, http.MethodPost, ts.URL+"/itineraries", "alice", map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := doRequest(t, http.MethodPost, ts.URL+"/itineraries", "bob", map[string]any{"title": "other"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/itineraries", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Itineraries []httpapi.ItineraryRecordResponse `json:"itineraries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Itineraries, 2)
}

func TestDeleteThenGone(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/itineraries", "alice", map[string]any{"title": "gone soon"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeRecord(t, resp)

	resp = doRequest(t, http.MethodDelete, ts.URL+"/itineraries/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, ts.URL+"/itineraries/"+created.ID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQuoteEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/itineraries", "alice", map[string]any{
		"start": "2024-07-21",
		"end":   "2024-07-23",
		"days": map[string]any{
			"1": []map[string]any{{"id": "a", "title": "Resort", "pricePerNight": 100}},
			"2": []map[string]any{{"id": "b", "title": "Inn", "pricePerNight": 150}},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeRecord(t, resp)

	resp = doRequest(t, http.MethodGet, ts.URL+"/itineraries/"+created.ID+"/quote", "alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bd struct {
		Nights   int    `json:"nights"`
		Subtotal string `json:"subtotal"`
		Taxes    string `json:"taxes"`
		Fees     string `json:"fees"`
		Total    string `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bd))
	assert.Equal(t, 2, bd.Nights)
	assert.Equal(t, "500", bd.Subtotal)
	assert.Equal(t, "60", bd.Taxes)
	assert.Equal(t, "25", bd.Fees)
	assert.Equal(t, "585", bd.Total)
}

func TestInvalidJSONBodyIs400(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/itineraries", bytes.NewBufferString("{nope"))
	require.NoError(t, err)
	req.Header.Set("X-Debug-Subject", "alice")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJWTAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	svc := itineraries.NewService(memrepo.NewRepo(), platformclock.NewSystemClock())
	handler := httpapi.NewRouter(httpapi.NewServer(svc), httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewAuthMiddleware(secret),
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	t.Run("missing header", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/itineraries")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/itineraries", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		raw, err := tokens.Sign("other-secret", "alice", time.Hour)
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/itineraries", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+raw)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		raw, err := tokens.Sign(secret, "alice", time.Hour)
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/itineraries", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+raw)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
