// Package handlers contains the HTTP handlers for Mood-Music-Go: a small HTML
// form, a JSON recommendation endpoint and read-only views over the optional
// history database.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"Mood-Music-Go/pkg/db"
	"Mood-Music-Go/pkg/metrics"
	"Mood-Music-Go/pkg/recommend"
)

// Recommender produces a recommendation for mood text. *recommend.Engine
// satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, mood string) (recommend.Result, error)
}

// Application holds the dependencies shared by the handlers. DB and Metrics
// may be nil.
type Application struct {
	Engine  Recommender
	DB      *db.DB
	Metrics *metrics.Metrics
}

// Routes registers every endpoint on a new mux wrapped in SecurityHeaders.
func (app *Application) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", app.Home)
	mux.HandleFunc("POST /{$}", app.HomeSubmit)
	mux.HandleFunc("POST /api/recommend", app.RecommendJSON)
	mux.HandleFunc("GET /api/history", app.HistoryJSON)
	mux.HandleFunc("GET /api/insights/genres", app.GenreInsightsJSON)
	mux.Handle("GET /metrics", app.Metrics.Handler())
	return SecurityHeaders(mux)
}

var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head><title>Music Recommendation System</title></head>
<body>
<h1>Music Recommendation System</h1>
<form action="/" method="post">
	<textarea name="mood" rows="4" cols="50" placeholder="Describe your mood or preference">{{.Mood}}</textarea>
	<button type="submit">Recommend</button>
	<a href="/">Back</a>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Tracks}}<h2>Recommended songs:</h2>
<ul>{{range .Tracks}}<li>{{.}}</li>{{end}}</ul>{{end}}
</body>
</html>
`))

type homeData struct {
	Mood   string
	Error  string
	Tracks []string
}

// Home renders the empty mood form. It never searches, so crawlers and link
// prefetchers following GET / do not touch the catalog or the history.
func (app *Application) Home(w http.ResponseWriter, r *http.Request) {
	renderHome(w, http.StatusOK, homeData{})
}

// HomeSubmit handles the posted form and renders the recommendation below it.
func (app *Application) HomeSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		renderHome(w, http.StatusBadRequest, homeData{Error: "could not read the form"})
		return
	}
	data := homeData{Mood: r.PostForm.Get("mood")}
	res, err := app.recommend(r.Context(), data.Mood)
	if err != nil {
		status, msg := statusFor(err)
		data.Error = msg
		renderHome(w, status, data)
		return
	}
	data.Tracks = res.Tracks
	renderHome(w, http.StatusOK, data)
}

func renderHome(w http.ResponseWriter, status int, data homeData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := homeTmpl.Execute(w, data); err != nil {
		log.WithError(err).Error("render home")
	}
}

type recommendRequest struct {
	Mood string `json:"mood"`
}

// RecommendJSON accepts {"mood": "..."} and responds with the result.
func (app *Application) RecommendJSON(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decodeJSON(r, &req); err != nil {
		respondJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := app.recommend(r.Context(), req.Mood)
	if err != nil {
		status, msg := statusFor(err)
		respondJSONError(w, status, msg)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// recommend runs the engine and appends successful results to history.
func (app *Application) recommend(ctx context.Context, mood string) (recommend.Result, error) {
	res, err := app.Engine.Recommend(ctx, mood)
	if err != nil {
		return recommend.Result{}, err
	}
	if app.DB != nil {
		rec := db.Recommendation{ID: res.ID, Mood: res.Mood, Genre: res.Genre, Fallback: res.Fallback, Tracks: res.Tracks}
		if err := app.DB.SaveRecommendation(ctx, rec); err != nil {
			log.WithError(err).WithField("request_id", res.ID).Warn("save history")
		}
	}
	return res, nil
}

// statusFor maps engine errors to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrEmptyInput):
		return http.StatusBadRequest, "please describe your mood"
	case errors.Is(err, recommend.ErrNoResults), errors.Is(err, recommend.ErrInsufficientResults):
		return http.StatusNotFound, "not enough tracks found for that mood, try again"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusBadGateway, "music catalog unavailable"
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("encode response")
	}
}

// respondJSONError writes {"error": msg} with the given status.
func respondJSONError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": strings.TrimSpace(msg)})
}
