// Package soundcloud implements the music.Service interface using the
// SoundCloud public API. Tracks are filtered by their genre tag; a client_id
// must be supplied via the environment or configuration.
package soundcloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	libspotify "github.com/zmb3/spotify"

	"Mood-Music-Go/pkg/music"
)

// BaseURL is the SoundCloud track search endpoint.
const BaseURL = "https://api-v2.soundcloud.com/search/tracks"

// Client talks to the SoundCloud API. If HTTP is nil a client with a 10 second
// timeout is used.
type Client struct {
	ClientID string
	HTTP     *http.Client
}

// Ensure interface compliance at compile time.
var _ music.Service = (*Client)(nil)

// SearchGenre queries SoundCloud for tracks tagged with genre and converts
// the results. Genre tags are lower case on SoundCloud.
func (c *Client) SearchGenre(ctx context.Context, genre string, limit int) ([]music.Track, error) {
	if c.HTTP == nil {
		c.HTTP = &http.Client{Timeout: 10 * time.Second}
	}
	params := url.Values{
		"q":                   {"*"},
		"filter.genre_or_tag": {strings.ToLower(genre)},
		"client_id":           {c.ClientID},
		"limit":               {strconv.Itoa(limit)},
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
		return nil, fmt.Errorf("soundcloud search error: %s", resp.Status)
	}
	var body struct {
		Collection []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
			User  struct {
				Username string `json:"username"`
			} `json:"user"`
		} `json:"collection"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("soundcloud decode: %w", err)
	}
	if len(body.Collection) == 0 {
		return nil, music.ErrNoTracks
	}
	tracks := make([]music.Track, len(body.Collection))
	for i, item := range body.Collection {
		tracks[i] = libspotify.FullTrack{
			SimpleTrack: libspotify.SimpleTrack{
				ID:      libspotify.ID(fmt.Sprintf("sc-%d", item.ID)),
				Name:    item.Title,
				Artists: []libspotify.SimpleArtist{{Name: item.User.Username}},
				ExternalURLs: map[string]string{
					"soundcloud": fmt.Sprintf("https://soundcloud.com/tracks/%d", item.ID),
				},
			},
		}
	}
	return tracks, nil
}
