// Package nominatim implements the Geocoder port against the OpenStreetMap
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mapdash/internal/domain"
)

// DefaultBaseURL is the public Nominatim endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

const resultLimit = 5

// Client queries the Nominatim search API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL. An empty baseURL uses the
// public endpoint.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

var _ domain.Geocoder = (*Client)(nil)

type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search forward-geocodes a free-form query, returning up to five places.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", query)
	q.Set("addressdetails", "1")
	q.Set("limit", strconv.Itoa(resultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Language", "en")
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", "mapdash/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim search: unexpected status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}

	places := make([]domain.Place, 0, len(results))
	for _, res := range results {
		lat, err := strconv.ParseFloat(res.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(res.Lon, 64)
		if err != nil {
			continue
		}
		places = append(places, domain.Place{Name: res.DisplayName, Lat: lat, Lon: lon})
	}
	return places, nil
}
