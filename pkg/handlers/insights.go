// This file exposes read-only views over the recommendation history.

package handlers

import (
	"net/http"
	"strconv"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryJSON returns the most recent recommendations. The optional limit
// query parameter is clamped to 1..100.
func (app *Application) HistoryJSON(w http.ResponseWriter, r *http.Request) {
	if app.DB == nil {
		respondJSONError(w, http.StatusNotFound, "history is disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	res, err := app.DB.RecentRecommendations(r.Context(), limit)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// GenreInsightsJSON returns how often each genre was recommended and how many
// of those came from the fallback path.
func (app *Application) GenreInsightsJSON(w http.ResponseWriter, r *http.Request) {
	if app.DB == nil {
		respondJSONError(w, http.StatusNotFound, "history is disabled")
		return
	}
	res, err := app.DB.GenreCounts(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "failed to load insights")
		return
	}
	respondJSON(w, http.StatusOK, res)
}
