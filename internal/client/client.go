// Package client is the consumer side of the sighting API: it issues
// searches, keeps only the newest answer, and derives map markers.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"trackify/internal/domain/sighting"
)

// ErrFetch is returned for every transport or non-2xx failure; callers
// show one generic message for all of them.
var ErrFetch = errors.New("error fetching data")

type Client struct {
	http *resty.Client
}

// New builds a client for the API at baseURL, e.g. http://localhost:3000.
func New(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		r.SetTimeout(timeout)
	}
	return &Client{http: r}
}

type apiError struct {
	Message string `json:"message"`
}

// FindSightings calls GET /api/vehicles. seq is sent as X-Request-Seq
// when non-zero.
func (c *Client) FindSightings(ctx context.Context, plate string, seq uint64) ([]sighting.Sighting, error) {
	var result []sighting.Sighting
	var apiErr apiError

	req := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr)
	if plate != "" {
		req.SetQueryParam("numberPlate", plate)
	}
	if seq != 0 {
		req.SetHeader("X-Request-Seq", strconv.FormatUint(seq, 10))
	}

	resp, err := req.Get("/api/vehicles")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	if resp.StatusCode() != http.StatusOK {
		if apiErr.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrFetch, resp.StatusCode(), apiErr.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode())
	}
	if result == nil {
		result = []sighting.Sighting{}
	}
	return result, nil
}
