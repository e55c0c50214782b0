// Package httpclient implements the itineraryclient port against the itinerary
// API's wire format. It is the client half of the reconciliation flow.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryclient"
)

// TokenSource supplies the bearer token for a request. Returning an empty token
// with a nil error issues the request unauthenticated (the server will refuse).
type TokenSource func(ctx context.Context) (string, error)

// StaticToken adapts a fixed token string into a TokenSource.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

var _ itineraryclient.Client = (*Client)(nil)

func NewClient(baseURL string, token TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		token:   token,
	}
}

// wireRecord mirrors httpapi.ItineraryRecordResponse.
type wireRecord struct {
	ID        string          `json:"id"`
	Owner     string          `json:"owner"`
	Title     string          `json:"title"`
	Start     string          `json:"start"`
	End       string          `json:"end"`
	Days      domain.DaySpots `json:"days"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type wireError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Find(ctx context.Context, id domain.ItineraryID) (itineraryclient.Record, error) {
	return c.do(ctx, http.MethodGet, "/itineraries/"+string(id), nil)
}

func (c *Client) Create(ctx context.Context, it domain.Itinerary, owner domain.SubjectID) (itineraryclient.Record, error) {
	// The server derives the owner from the bearer token; owner here only guards
	// against issuing unauthenticated creates.
	if owner == "" {
		return itineraryclient.Record{}, fmt.Errorf("create itinerary: no owner identity")
	}
	return c.do(ctx, http.MethodPost, "/itineraries", it)
}

func (c *Client) Update(ctx context.Context, id domain.ItineraryID, it domain.Itinerary) (itineraryclient.Record, error) {
	return c.do(ctx, http.MethodPut, "/itineraries/"+string(id), it)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (itineraryclient.Record, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return itineraryclient.Record{}, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return itineraryclient.Record{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return itineraryclient.Record{}, fmt.Errorf("resolve bearer token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return itineraryclient.Record{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return itineraryclient.Record{}, itineraryclient.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return itineraryclient.Record{}, apiError(resp)
	}

	var wr wireRecord
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return itineraryclient.Record{}, fmt.Errorf("decode itinerary record: %w", err)
	}
	return itineraryclient.Record{
		Itinerary: domain.Itinerary{
			ID:    domain.ItineraryID(wr.ID),
			Title: wr.Title,
			Start: wr.Start,
			End:   wr.End,
			Days:  wr.Days,
		},
		Owner:     domain.SubjectID(wr.Owner),
		CreatedAt: wr.CreatedAt,
		UpdatedAt: wr.UpdatedAt,
	}, nil
}

func apiError(resp *http.Response) error {
	var we wireError
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&we); err == nil && we.Error.Code != "" {
		return fmt.Errorf("itinerary api: %s: %s", we.Error.Code, we.Error.Message)
	}
	return fmt.Errorf("itinerary api: unexpected status %d", resp.StatusCode)
}
