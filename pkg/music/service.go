// Package music defines the catalog search capability the recommender depends
// on. Implementations can wrap Spotify, YouTube or any other service. By
// depending on this package the rest of the application can remain agnostic
// about the underlying platform.
//
// Track is an alias of spotify.FullTrack so every provider fills in the same
// familiar fields (Name, Artists, ExternalURLs). Other services should populate
// these fields where possible.
package music

import (
	"context"
	"errors"

	libspotify "github.com/zmb3/spotify"
)

// Track represents a track returned by a music service. It mirrors
// spotify.FullTrack.
type Track = libspotify.FullTrack

// ErrNoTracks is returned by services when a search matched nothing.
var ErrNoTracks = errors.New("no tracks found")

// Service searches a catalog for tracks belonging to a genre.
type Service interface {
	// SearchGenre returns up to limit tracks tagged with the genre. The
	// context is used for request cancellation and timeout propagation.
	// ErrNoTracks is returned when the catalog has nothing for the genre.
	SearchGenre(ctx context.Context, genre string, limit int) ([]Track, error)
}

// Display renders a track the way recommendations are shown to users:
// "<title> by <primary artist>". Tracks without artists render as
// "<title> by Unknown".
func Display(t Track) string {
	artist := "Unknown"
	if len(t.Artists) > 0 && t.Artists[0].Name != "" {
		artist = t.Artists[0].Name
	}
	return t.Name + " by " + artist
}
