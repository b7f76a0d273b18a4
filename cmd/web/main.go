// Command web serves the mood recommender over HTTP. Configuration comes from
// the environment (see pkg/config); the server listens on HTTP_ADDR, :4000 by
// default, and serves an HTML form, a JSON API and Prometheus metrics.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"Mood-Music-Go/pkg/config"
	"Mood-Music-Go/pkg/db"
	"Mood-Music-Go/pkg/handlers"
	"Mood-Music-Go/pkg/metrics"
	"Mood-Music-Go/pkg/music"
	"Mood-Music-Go/pkg/recommend"
)

// webSampleSize is K for the web shell when SAMPLE_SIZE is unset; it matches
// the desktop form.
const webSampleSize = 5

const shutdownTimeout = 10 * time.Second

type serviceFactory func(context.Context, config.Config, *metrics.Metrics) (music.Service, error)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	cfg := config.Load()
	if lvl, err := log.ParseLevel(cfg.LogLevel); cfg.LogLevel != "" && err == nil {
		log.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg, config.NewService); err != nil {
		log.WithError(err).Fatal("web server")
	}
}

// newApplication wires the catalog, engine, metrics and optional history.
// The returned cleanup closes the database.
func newApplication(ctx context.Context, cfg config.Config, newService serviceFactory) (*handlers.Application, func(), error) {
	m := metrics.New()
	svc, err := newService(ctx, cfg, m)
	if err != nil {
		return nil, nil, err
	}
	mode, err := recommend.ParseMatchMode(cfg.MatchMode)
	if err != nil {
		return nil, nil, err
	}
	k := cfg.SampleSize
	if k == 0 {
		k = webSampleSize
	}
	app := &handlers.Application{
		Engine: recommend.New(svc,
			recommend.WithSampleSize(k),
			recommend.WithMatchMode(mode),
			recommend.WithRequireInput(true),
			recommend.WithMetrics(m),
		),
		Metrics: m,
	}
	cleanup := func() {}
	if cfg.DatabasePath != "" {
		d, err := db.New(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		app.DB = d
		cleanup = func() { d.Close() }
	}
	return app, cleanup, nil
}

func run(ctx context.Context, cfg config.Config, newService serviceFactory) error {
	app, cleanup, err := newApplication(ctx, cfg, newService)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handlers.RequestLogger(log.StandardLogger(), app.Routes()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"addr": cfg.HTTPAddr, "service": cfg.Service, "history": cfg.DatabasePath != ""}).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}
