package app

import "mapdash/internal/domain"

// DashboardService serves the card list shown after login.
type DashboardService struct {
	cards []domain.Card
}

// NewDashboardService creates a DashboardService with the built-in map views.
func NewDashboardService() *DashboardService {
	return &DashboardService{
		cards: []domain.Card{
			{ID: 1, Title: "World Map View", Path: "/map?view=world"},
			{ID: 2, Title: "Current Location", Path: "/map?view=current"},
			{ID: 3, Title: "City-wise Search", Path: "/map?view=city"},
		},
	}
}

// Cards returns the navigable dashboard entries.
func (s *DashboardService) Cards() []domain.Card {
	out := make([]domain.Card, len(s.cards))
	copy(out, s.cards)
	return out
}
