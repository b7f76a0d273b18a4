// Package tidal implements the music.Service interface using the public Tidal
// API. A token from the Tidal web player is required; the client does not
// perform authentication itself.
package tidal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	libspotify "github.com/zmb3/spotify"

	"Mood-Music-Go/pkg/music"
)

// BaseURL is the Tidal track search endpoint.
const BaseURL = "https://api.tidal.com/v1/search/tracks"

// ErrTokenRequired is returned by SearchGenre when Token is empty.
var ErrTokenRequired = errors.New("tidal token required")

// Client queries the Tidal API. If HTTP is nil SearchGenre creates a client
// with a 10 second timeout. CountryCode controls localisation and defaults
// to "US".
type Client struct {
	Token       string
	CountryCode string
	HTTP        *http.Client
}

var _ music.Service = (*Client)(nil)

// SearchGenre runs a free-text track search for the genre name and returns
// up to limit tracks. IDs are prefixed with "tidal-" so they stay distinct
// when results are aggregated.
func (c *Client) SearchGenre(ctx context.Context, genre string, limit int) ([]music.Track, error) {
	if c.Token == "" {
		return nil, ErrTokenRequired
	}
	if c.HTTP == nil {
		c.HTTP = &http.Client{Timeout: 10 * time.Second}
	}
	cc := c.CountryCode
	if cc == "" {
		cc = "US"
	}
	params := url.Values{
		"query":       {genre},
		"limit":       {strconv.Itoa(limit)},
		"offset":      {"0"},
		"countryCode": {cc},
		"token":       {c.Token},
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
		return nil, fmt.Errorf("tidal search error: %s", resp.Status)
	}
	var body struct {
		Tracks struct {
			Items []struct {
				ID     int64  `json:"id"`
				Title  string `json:"title"`
				Artist struct {
					Name string `json:"name"`
				} `json:"artist"`
			} `json:"items"`
		} `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("tidal decode: %w", err)
	}
	if len(body.Tracks.Items) == 0 {
		return nil, music.ErrNoTracks
	}
	tracks := make([]music.Track, len(body.Tracks.Items))
	for i, item := range body.Tracks.Items {
		tracks[i] = libspotify.FullTrack{
			SimpleTrack: libspotify.SimpleTrack{
				ID:      libspotify.ID(fmt.Sprintf("tidal-%d", item.ID)),
				Name:    item.Title,
				Artists: []libspotify.SimpleArtist{{Name: item.Artist.Name}},
				ExternalURLs: map[string]string{
					"tidal": fmt.Sprintf("https://tidal.com/browse/track/%d", item.ID),
				},
			},
		}
	}
	return tracks, nil
}
