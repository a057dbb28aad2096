package app

import (
	"context"
	"errors"
	"strings"

	"mapdash/internal/domain"
)

// Default viewport centered on India, matching the frontend's world view.
var defaultMap = domain.MapConfig{
	Center: [2]float64{20.5937, 78.9629},
	Zoom:   5,
}

// MapService provides the map viewport configuration and city search.
type MapService struct {
	geocoder domain.Geocoder
}

// NewMapService creates a MapService backed by the given geocoder.
func NewMapService(geocoder domain.Geocoder) *MapService {
	return &MapService{geocoder: geocoder}
}

// Config returns the initial map viewport with a marker at its center.
func (s *MapService) Config() domain.MapConfig {
	cfg := defaultMap
	cfg.Markers = []domain.Marker{
		{Lat: cfg.Center[0], Lon: cfg.Center[1], Label: "Default view"},
	}
	return cfg
}

// Search forward-geocodes a free-form city query.
func (s *MapService) Search(ctx context.Context, query string) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	return s.geocoder.Search(ctx, query)
}
