package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/sentiment-map/internal/render"
	"github.com/couchcryptid/sentiment-map/internal/sentiment"
)

type summaryResponse struct {
	sentiment.Summary
	Regions         int    `json:"regions"`
	RegionsFallback bool   `json:"regions_fallback"`
	Generation      uint64 `json:"generation"`
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	m, ok := s.api.Map.Map()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "map has not been rendered yet")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(m); err != nil {
		s.logger.Error("encode map", "error", err)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:         s.api.Sentiment.Summary(),
		Regions:         len(s.api.Regions.Regions()),
		RegionsFallback: s.api.Regions.Fallback(),
		Generation:      s.api.Map.Generation(),
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	code := departmentCode(r)
	d, found := s.api.Details.Detail(code)
	status := http.StatusOK
	if !found {
		status = http.StatusNotFound
	}
	writeJSON(w, status, d)
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	code := departmentCode(r)
	d, found := s.api.Details.Detail(code)
	html, err := render.Panel(d)
	if err != nil {
		s.logger.Error("render panel", "code", code, "error", err)
		writeError(w, http.StatusInternalServerError, "render panel failed")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if found {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusNotFound)
	}
	_, _ = w.Write(html)
}

// departmentCode normalises the path parameter: Corsican codes are matched
// case-insensitively ("2a" → "2A").
func departmentCode(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
