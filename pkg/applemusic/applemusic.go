// Package applemusic implements the music.Service interface using the public
// iTunes Search API. It allows searching for tracks without requiring user
// authentication. The zero value Client is ready for use; an http.Client with a
// reasonable timeout will be created when nil.
package applemusic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	libspotify "github.com/zmb3/spotify"

	"Mood-Music-Go/pkg/music"
)

// BaseURL is the iTunes search endpoint.
const BaseURL = "https://itunes.apple.com/search"

// Client provides access to Apple's iTunes Search API. HTTP may be nil in which
// case SearchGenre will allocate an http.Client with a 10 second timeout.
type Client struct {
	HTTP *http.Client
}

// Ensure interface compliance at compile time.
var _ music.Service = (*Client)(nil)

// SearchGenre asks iTunes for songs whose primary genre matches genre. The
// IDs are prefixed with "am-" so they do not collide with Spotify IDs when
// results are aggregated.
func (c *Client) SearchGenre(ctx context.Context, genre string, limit int) ([]music.Track, error) {
	if c.HTTP == nil {
		// Lazily create the HTTP client with a sane timeout to avoid
		// leaking connections from default client usage.
		c.HTTP = &http.Client{Timeout: 10 * time.Second}
	}
	params := url.Values{
		"term":      {genre},
		"media":     {"music"},
		"entity":    {"song"},
		"attribute": {"genreIndex"},
		"limit":     {strconv.Itoa(limit)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("itunes search error: %s", resp.Status)
	}
	// Body mirrors the subset of the iTunes JSON response we care about.
	var body struct {
		Results []struct {
			TrackID    int64  `json:"trackId"`
			TrackName  string `json:"trackName"`
			ArtistName string `json:"artistName"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("itunes decode: %w", err)
	}
	if len(body.Results) == 0 {
		return nil, music.ErrNoTracks
	}
	tracks := make([]music.Track, len(body.Results))
	for i, item := range body.Results {
		tracks[i] = libspotify.FullTrack{
			SimpleTrack: libspotify.SimpleTrack{
				ID:      libspotify.ID(fmt.Sprintf("am-%d", item.TrackID)),
				Name:    item.TrackName,
				Artists: []libspotify.SimpleArtist{{Name: item.ArtistName}},
				ExternalURLs: map[string]string{
					"applemusic": fmt.Sprintf("https://music.apple.com/track/%d", item.TrackID),
				},
			},
		}
	}
	return tracks, nil
}
