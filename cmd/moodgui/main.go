// Command moodgui opens the desktop recommendation form. Configuration comes
// from the environment (see pkg/config). When METRICS_ADDR is set, Prometheus
// metrics are served there while the window is open.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	log "github.com/sirupsen/logrus"

	"Mood-Music-Go/pkg/config"
	"Mood-Music-Go/pkg/db"
	"Mood-Music-Go/pkg/gui"
	"Mood-Music-Go/pkg/metrics"
	"Mood-Music-Go/pkg/recommend"
)

const guiSampleSize = 5

func main() {
	cfg := config.Load()
	if lvl, err := log.ParseLevel(cfg.LogLevel); cfg.LogLevel != "" && err == nil {
		log.SetLevel(lvl)
	}
	if err := run(cfg, app.NewWithID("com.moodmusic.gui")); err != nil {
		log.WithError(err).Error("moodgui")
		os.Exit(1)
	}
}

// run builds the engine from cfg and blocks until the window is closed.
func run(cfg config.Config, a fyne.App) error {
	rec, cleanup, err := newRecommender(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	w := a.NewWindow(gui.Title)
	w.Resize(fyne.NewSize(520, 420))
	gui.NewForm(w, rec)
	w.ShowAndRun()
	return nil
}

// newRecommender wires the catalog, engine, metrics server and optional
// history. cleanup stops the metrics server and closes the database.
func newRecommender(cfg config.Config) (gui.Recommender, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, m)
		closers = append(closers, func() { srv.Close() })
	}

	svc, err := config.NewService(context.Background(), cfg, m)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("music service: %w", err)
	}
	mode, err := recommend.ParseMatchMode(cfg.MatchMode)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	k := cfg.SampleSize
	if k == 0 {
		k = guiSampleSize
	}
	engine := recommend.New(svc,
		recommend.WithSampleSize(k),
		recommend.WithMatchMode(mode),
		recommend.WithRequireInput(true),
		recommend.WithMetrics(m),
	)

	var rec gui.Recommender = engine
	if cfg.DatabasePath != "" {
		d, err := db.New(cfg.DatabasePath)
		if err != nil {
			log.WithError(err).Warn("history unavailable")
		} else {
			closers = append(closers, func() { d.Close() })
			rec = historyRecorder{next: engine, db: d}
		}
	}
	return rec, cleanup, nil
}

func serveMetrics(addr string, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).WithField("addr", addr).Warn("metrics server")
		}
	}()
	return srv
}

// historyRecorder appends each successful result to the history database.
type historyRecorder struct {
	next gui.Recommender
	db   *db.DB
}

func (h historyRecorder) Recommend(ctx context.Context, mood string) (recommend.Result, error) {
	res, err := h.next.Recommend(ctx, mood)
	if err != nil {
		return res, err
	}
	rec := db.Recommendation{ID: res.ID, Mood: res.Mood, Genre: res.Genre, Fallback: res.Fallback, Tracks: res.Tracks}
	if err := h.db.SaveRecommendation(ctx, rec); err != nil {
		log.WithError(err).Warn("save history")
	}
	return res, nil
}
