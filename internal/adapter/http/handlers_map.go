package adapthttp

import (
	"log"
	"net/http"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		log.Printf("dashboard accessed by %s", claims.Username)
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": s.dashboard.Cards()})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if claims := ClaimsFromContext(r.Context()); claims != nil {
		log.Printf("map accessed by %s", claims.Username)
	}
	writeJSON(w, http.StatusOK, s.maps.Config())
}

func (s *Server) handleMapSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "validation", "query parameter q is required")
		return
	}

	places, err := s.maps.Search(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadGateway, "geocoding_failed", "city search is unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": places})
}
