// Package youtube implements the music.Service interface using the
// YouTube Data API. Genre searches are restricted to the Music video
// category. An API key must be provided when constructing the client.
//
// Network calls are performed using the provided http.Client allowing
// callers to substitute a test client.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	libspotify "github.com/zmb3/spotify"

	"Mood-Music-Go/pkg/music"
)

// BaseURL is the YouTube Data API search endpoint.
const BaseURL = "https://www.googleapis.com/youtube/v3/search"

// musicCategory is YouTube's video category ID for music.
const musicCategory = "10"

// Client provides access to the YouTube Data API.
type Client struct {
	Key    string
	Client *http.Client
}

// ensure Client implements the music.Service interface.
var _ music.Service = (*Client)(nil)

// SearchGenre queries the YouTube search API for "<genre> music" videos and
// converts them into music.Track values. The channel title stands in for the
// artist. Only the first page of results is returned.
func (c *Client) SearchGenre(ctx context.Context, genre string, limit int) ([]music.Track, error) {
	if c.Key == "" {
		return nil, fmt.Errorf("youtube api key required")
	}
	if c.Client == nil {
		c.Client = http.DefaultClient
	}
	params := url.Values{
		"part":            {"snippet"},
		"type":            {"video"},
		"videoCategoryId": {musicCategory},
		"maxResults":      {strconv.Itoa(limit)},
		"q":               {genre + " music"},
		"key":             {c.Key},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search error: %s", resp.Status)
	}
	var body struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("youtube decode: %w", err)
	}
	if len(body.Items) == 0 {
		return nil, music.ErrNoTracks
	}
	tracks := make([]music.Track, len(body.Items))
	for i, item := range body.Items {
		tracks[i] = libspotify.FullTrack{
			SimpleTrack: libspotify.SimpleTrack{
				ID:           libspotify.ID("yt-" + item.ID.VideoID),
				Name:         item.Snippet.Title,
				Artists:      []libspotify.SimpleArtist{{Name: item.Snippet.ChannelTitle}},
				ExternalURLs: map[string]string{"youtube": "https://youtu.be/" + item.ID.VideoID},
			},
		}
	}
	return tracks, nil
}
