// Package client is a typed Go client for the band site API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"bandsite/pkg/model"
)

// APIError is returned for any non-2xx answer.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("band api: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

type BookingResult struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

type BandClient struct {
	httpClient *HttpClient
}

func NewBandClient(baseURL string) *BandClient {
	return &BandClient{httpClient: NewHttpClient(baseURL)}
}

// HTTP exposes the underlying client for raw requests.
func (c *BandClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *BandClient) Hello(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.get(ctx, "/api/hello", &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *BandClient) Diagnostics(ctx context.Context) (*Diagnostics, error) {
	var out Diagnostics
	if err := c.get(ctx, "/test", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Members lists band members. A limit of 0 leaves the server default.
func (c *BandClient) Members(ctx context.Context, limit int) ([]model.BandMember, error) {
	return list[model.BandMember](ctx, c, "/api/band/members", withLimit(url.Values{}, limit))
}

func (c *BandClient) Albums(ctx context.Context, limit int) ([]model.Album, error) {
	return list[model.Album](ctx, c, "/api/music/albums", withLimit(url.Values{}, limit))
}

// Songs lists songs, restricted to albumID when it is not empty.
func (c *BandClient) Songs(ctx context.Context, albumID string, limit int) ([]model.Song, error) {
	q := withLimit(url.Values{}, limit)
	if albumID != "" {
		q.Set("album_id", albumID)
	}
	return list[model.Song](ctx, c, "/api/music/songs", q)
}

// RequestBooking submits a booking. A non-empty idempotencyKey makes
// retries of the same request safe.
func (c *BandClient) RequestBooking(ctx context.Context, req model.BookingRequest, idempotencyKey string) (*BookingResult, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	resp, err := c.httpClient.POSTWithHeaders(ctx, "/api/booking", bookingBody(req), headers)
	if err != nil {
		return nil, err
	}
	var out BookingResult
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *BandClient, path string, q url.Values) ([]T, error) {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out struct {
		Items []T `json:"items"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *BandClient) get(ctx context.Context, path string, target any) error {
	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return err
	}
	return decode(resp, target)
}

func decode(resp *Response, target any) error {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Error   string         `json:"error"`
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		}
		if err := resp.DecodeJSON(&body); err == nil {
			apiErr.Code, apiErr.Message, apiErr.Details = body.Code, body.Error, body.Details
		} else {
			apiErr.Message = string(resp.Body)
		}
		return apiErr
	}
	if err := resp.DecodeJSON(target); err != nil {
		return fmt.Errorf("could not decode response:\n%s\n%w", resp.ToString(), err)
	}
	return nil
}

func withLimit(q url.Values, limit int) url.Values {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// bookingBody drops the server-assigned fields from the request body.
func bookingBody(req model.BookingRequest) map[string]any {
	body := map[string]any{
		"name":    req.Name,
		"email":   req.Email,
		"message": req.Message,
	}
	if req.EventDate != nil {
		body["event_date"] = *req.EventDate
	}
	if req.EventLocation != nil {
		body["event_location"] = *req.EventLocation
	}
	return body
}
