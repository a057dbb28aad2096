package domain

import "context"

// Card is a navigable entry on the dashboard.
type Card struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Marker is a point of interest rendered on the map.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

// MapConfig is the initial viewport and marker set for the map view.
type MapConfig struct {
	Center  [2]float64 `json:"center"`
	Zoom    int        `json:"zoom"`
	Markers []Marker   `json:"markers"`
}

// Place is a geocoding result for a city search.
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Geocoder defines the port for forward geocoding of free-form queries.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
}
