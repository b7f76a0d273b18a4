// Package spotify wraps the official Spotify client library and exposes the
// genre search the recommender needs. It authenticates using the client
// credentials flow; no user login is involved.
//
// The wrapped library does not accept a context, so cancellation is checked
// explicitly before each call and while waiting on the request limiter.
// Errors from the underlying client (including spotify.Error with the HTTP
// status) are returned wrapped so callers can inspect them.
package spotify

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/zmb3/spotify"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"Mood-Music-Go/pkg/music"
)

// DefaultRequestInterval spaces consecutive catalog requests so a burst of
// fallback searches does not trip Spotify's rate limiting.
const DefaultRequestInterval = 100 * time.Millisecond

// searcher defines the subset of the spotify.Client used by this package.
// It allows the concrete client to be replaced in tests.
type searcher interface {
	SearchOpt(query string, t spotify.SearchType, opt *spotify.Options) (*spotify.SearchResult, error)
}

// tokenSource fetches application tokens. clientcredentials.Config satisfies
// it.
type tokenSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// SpotifyClient wraps the official Spotify client providing genre search.
type SpotifyClient struct {
	mu      sync.Mutex
	client  searcher
	creds   tokenSource
	token   *oauth2.Token
	limiter *rate.Limiter
}

// Compile-time interface check ensuring SpotifyClient satisfies the generic
// music.Service interface used by the rest of the application.
var _ music.Service = (*SpotifyClient)(nil)

// NewSpotifyClient authenticates using the client credentials flow and returns
// a SpotifyClient ready for API calls. clientID and clientSecret are obtained
// from the Spotify developer dashboard.
func NewSpotifyClient(ctx context.Context, clientID string, clientSecret string) (*SpotifyClient, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotify.TokenURL,
	}
	sc := &SpotifyClient{
		creds:   config,
		limiter: rate.NewLimiter(rate.Every(DefaultRequestInterval), 1),
	}
	if err := sc.refresh(ctx); err != nil {
		return nil, fmt.Errorf("spotify auth: %w", err)
	}
	return sc, nil
}

// refresh obtains a new application token and rebuilds the API client.
func (sc *SpotifyClient) refresh(ctx context.Context) error {
	token, err := sc.creds.Token(ctx)
	if err != nil {
		return err
	}
	c := spotify.Authenticator{}.NewClient(token)
	sc.token = token
	sc.client = &c
	return nil
}

// current returns the client to use, replacing it first when the application
// token has expired. Clients built without credentials (tests) are returned
// as is.
func (sc *SpotifyClient) current(ctx context.Context) (searcher, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.creds != nil && (sc.token == nil || !sc.token.Valid()) {
		log.Debug("spotify token expired, refreshing")
		if err := sc.refresh(ctx); err != nil {
			return nil, fmt.Errorf("spotify auth: %w", err)
		}
	}
	return sc.client, nil
}

// Query builds the catalog query used to find tracks of a genre.
func Query(genre string) string {
	return "genre:" + genre
}

// SearchGenre implements music.Service by querying the Spotify API for tracks
// tagged with genre. At most limit tracks are requested. ErrNoTracks is
// returned when the result set is empty.
func (sc *SpotifyClient) SearchGenre(ctx context.Context, genre string, limit int) ([]music.Track, error) {
	if sc.limiter != nil {
		if err := sc.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	// The underlying client does not accept a context, but we honour the
	// provided one by checking for cancellation before calling it.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := sc.current(ctx)
	if err != nil {
		return nil, err
	}
	opt := &spotify.Options{Limit: &limit}
	results, err := client.SearchOpt(Query(genre), spotify.SearchTypeTrack, opt)
	if err != nil {
		log.WithError(err).WithField("genre", genre).Warn("spotify search failed")
		return nil, fmt.Errorf("spotify search %q: %w", genre, err)
	}

	if results != nil && results.Tracks != nil && len(results.Tracks.Tracks) > 0 {
		tracks := make([]music.Track, len(results.Tracks.Tracks))
		copy(tracks, results.Tracks.Tracks)
		return tracks, nil
	}

	// Indicate to callers that nothing matched the query.
	return nil, music.ErrNoTracks
}
