// Package recommend turns a free-text mood into a handful of track
// suggestions. The engine classifies the text against the genre catalog,
// searches the injected music.Service for the chosen genre and returns a
// random sample of "<title> by <artist>" strings.
//
// Each call builds its own candidate pool; nothing fetched in one call is kept
// for the next. The first error aborts the request: there are no retries and
// no reduced-size fallback.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"Mood-Music-Go/pkg/genre"
	"Mood-Music-Go/pkg/metrics"
	"Mood-Music-Go/pkg/music"
)

// Defaults used when no option overrides them.
const (
	DefaultSampleSize    = 4
	DefaultMatchLimit    = 10
	DefaultFallbackLimit = 5
)

// Result is the outcome of one recommendation.
type Result struct {
	ID       string   `json:"id"`
	Mood     string   `json:"mood"`
	Genre    string   `json:"genre"`
	Fallback bool     `json:"fallback"`
	Tracks   []string `json:"tracks"`
}

// Engine produces recommendations. It is safe for concurrent use when its
// Rand is (the default one is).
type Engine struct {
	svc           music.Service
	catalog       genre.Catalog
	mode          MatchMode
	sampleSize    int
	matchLimit    int
	fallbackLimit int
	requireInput  bool
	rnd           Rand
	log           logrus.FieldLogger
	metrics       *metrics.Metrics
	newID         func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog replaces the default genre catalog.
func WithCatalog(c genre.Catalog) Option { return func(e *Engine) { e.catalog = c } }

// WithSampleSize sets K, the number of tracks per recommendation. Values
// below one keep the default.
func WithSampleSize(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.sampleSize = k
		}
	}
}

// WithMatchLimit sets how many tracks are requested for a matched genre.
// Searches never ask for fewer tracks than the sample size.
func WithMatchLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.matchLimit = n
		}
	}
}

// WithFallbackLimit sets how many tracks are requested on the fallback path.
func WithFallbackLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.fallbackLimit = n
		}
	}
}

// WithMatchMode selects how the catalog is scanned.
func WithMatchMode(m MatchMode) Option { return func(e *Engine) { e.mode = m } }

// WithRequireInput makes empty or whitespace-only mood text an error.
func WithRequireInput(require bool) Option { return func(e *Engine) { e.requireInput = require } }

// WithRand sets the randomness source used for draws and sampling.
func WithRand(r Rand) Option { return func(e *Engine) { e.rnd = r } }

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option { return func(e *Engine) { e.log = l } }

// WithMetrics records recommendation outcomes on m.
func WithMetrics(m *metrics.Metrics) Option { return func(e *Engine) { e.metrics = m } }

// WithIDFunc overrides request ID generation.
func WithIDFunc(f func() string) Option { return func(e *Engine) { e.newID = f } }

// New returns an Engine searching svc.
func New(svc music.Service, opts ...Option) *Engine {
	e := &Engine{
		svc:           svc,
		catalog:       genre.Default(),
		mode:          FirstMatch,
		sampleSize:    DefaultSampleSize,
		matchLimit:    DefaultMatchLimit,
		fallbackLimit: DefaultFallbackLimit,
		rnd:           globalRand{},
		log:           logrus.StandardLogger(),
		newID:         uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SampleSize returns K.
func (e *Engine) SampleSize() int { return e.sampleSize }

// Mode returns the configured match mode.
func (e *Engine) Mode() MatchMode { return e.mode }

// Catalog returns the genre catalog the engine matches against.
func (e *Engine) Catalog() genre.Catalog { return e.catalog }

// Recommend classifies text and returns SampleSize distinct tracks.
func (e *Engine) Recommend(ctx context.Context, text string) (Result, error) {
	id := e.newID()
	logger := e.log.WithFields(logrus.Fields{"request_id": id, "mode": e.mode.String()})

	res, err := e.recommend(ctx, text, logger)
	if err != nil {
		e.metrics.ObserveFailure(failureReason(err))
		logger.WithError(err).Warn("recommendation failed")
		return Result{}, err
	}
	res.ID = id
	res.Mood = text
	e.metrics.ObserveRecommendation(res.Genre, res.Fallback)
	logger.WithFields(logrus.Fields{
		"genre":    res.Genre,
		"fallback": res.Fallback,
		"tracks":   len(res.Tracks),
	}).Info("recommendation served")
	return res, nil
}

func (e *Engine) recommend(ctx context.Context, text string, logger logrus.FieldLogger) (Result, error) {
	if e.requireInput && strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyInput
	}
	if e.catalog.Len() == 0 {
		return Result{}, ErrEmptyCatalog
	}
	if e.mode == Legacy {
		return e.recommendLegacy(ctx, text, logger)
	}
	if g, ok := e.catalog.FirstMatch(text); ok {
		logger.WithField("genre", g.Name).Debug("mood matched genre")
		return e.fromGenre(ctx, g.Name)
	}
	logger.Debug("no genre matched, using fallback")
	return e.fromFallback(ctx)
}

// recommendLegacy reproduces the original scan: only the first genre is
// tested. A miss fills a fallback pool for every configured genre and the
// sample comes from the first genre's pool, so later genres never match.
func (e *Engine) recommendLegacy(ctx context.Context, text string, logger logrus.FieldLogger) (Result, error) {
	first, _ := e.catalog.First()
	if genre.Matches(first, text) {
		return e.fromGenre(ctx, first.Name)
	}
	logger.WithField("checked", first.Name).Debug("legacy scan stopped after the first genre")

	type pool struct {
		genre  string
		tracks []string
	}
	pools := make(map[string]pool, e.catalog.Len())
	for _, g := range e.catalog.Genres() {
		name := e.FallbackGenre()
		tracks, err := e.FetchCandidates(ctx, name, e.atLeastK(e.fallbackLimit))
		if err != nil {
			return Result{}, err
		}
		pools[g.Name] = pool{genre: name, tracks: tracks}
	}
	p := pools[first.Name]
	tracks, err := Sample(e.rnd, p.tracks, e.sampleSize)
	if err != nil {
		return Result{}, fmt.Errorf("sample %s fallback pool: %w", p.genre, err)
	}
	return Result{Genre: p.genre, Fallback: true, Tracks: tracks}, nil
}

func (e *Engine) fromGenre(ctx context.Context, name string) (Result, error) {
	candidates, err := e.FetchCandidates(ctx, name, e.atLeastK(e.matchLimit))
	if err != nil {
		return Result{}, err
	}
	tracks, err := Sample(e.rnd, candidates, e.sampleSize)
	if err != nil {
		return Result{}, fmt.Errorf("sample %s: %w", name, err)
	}
	return Result{Genre: name, Tracks: tracks}, nil
}

func (e *Engine) fromFallback(ctx context.Context) (Result, error) {
	name := e.FallbackGenre()
	candidates, err := e.FetchCandidates(ctx, name, e.atLeastK(e.fallbackLimit))
	if err != nil {
		return Result{}, err
	}
	tracks, err := Sample(e.rnd, candidates, e.sampleSize)
	if err != nil {
		return Result{}, fmt.Errorf("sample %s fallback: %w", name, err)
	}
	return Result{Genre: name, Fallback: true, Tracks: tracks}, nil
}

// atLeastK raises a search limit to the sample size so a large K can still be
// satisfied by a catalog with enough tracks.
func (e *Engine) atLeastK(limit int) int {
	return max(limit, e.sampleSize)
}

// FallbackGenre draws a substitute genre name uniformly over
// genre.FallbackDraws outcomes.
func (e *Engine) FallbackGenre() string {
	return genre.RandomFallbackName(1 + e.rnd.IntN(genre.FallbackDraws))
}

// FetchCandidates searches the catalog for up to limit tracks of the named
// genre and returns them in display form. A fresh slice is returned on every
// call.
func (e *Engine) FetchCandidates(ctx context.Context, name string, limit int) ([]string, error) {
	tracks, err := e.svc.SearchGenre(ctx, name, limit)
	if errors.Is(err, music.ErrNoTracks) || (err == nil && len(tracks) == 0) {
		return nil, fmt.Errorf("%w for genre %s", ErrNoResults, name)
	}
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", name, err)
	}
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = music.Display(t)
	}
	return out, nil
}
