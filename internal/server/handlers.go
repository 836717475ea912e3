package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// cardMaxAge is the freshness hint handed to clients and proxies.
const cardMaxAge = 180

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(`<a href="https://github.com/kvba0000">gms-stats-tracker</a> — GET /stat?id=&lt;game id&gt;`)) //nolint:errcheck
}

func (s *Server) handleStat(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing or invalid id"})
		return
	}

	card, ok := s.src.GetCard(r.Context(), id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown game id"})
		return
	}

	w.Header().Set("Content-Type", s.src.ContentType())
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(cardMaxAge))
	w.Write(card) //nolint:errcheck
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"games":     len(s.src.Games()),
	})
}

func (s *Server) handleGames(w http.ResponseWriter, _ *http.Request) {
	games := s.src.Games()
	result := make([]gameSummary, 0, len(games))
	for _, g := range games {
		result = append(result, gameSummary{
			ID:      int(g.ID),
			Title:   g.Title,
			Current: g.Last(),
			History: g.History,
		})
	}
	writeJSON(w, http.StatusOK, result)
}

type gameSummary struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Current int    `json:"current"`
	History []int  `json:"history"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v) //nolint:errcheck
}
