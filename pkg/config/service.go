package config

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"Mood-Music-Go/pkg/applemusic"
	"Mood-Music-Go/pkg/metrics"
	"Mood-Music-Go/pkg/music"
	"Mood-Music-Go/pkg/soundcloud"
	"Mood-Music-Go/pkg/spotify"
	"Mood-Music-Go/pkg/tidal"
	"Mood-Music-Go/pkg/youtube"
)

// NewService builds the catalog selected by c.Service. Every provider is
// wrapped with metrics.Instrument; m may be nil. The aggregate service
// includes each provider whose credentials are present, plus Apple Music
// which needs none.
func NewService(ctx context.Context, c Config, m *metrics.Metrics) (music.Service, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Service {
	case ServiceSpotify:
		sc, err := spotify.NewSpotifyClient(ctx, c.SpotifyClientID, c.SpotifyClientSecret)
		if err != nil {
			return nil, err
		}
		return metrics.Instrument(sc, ServiceSpotify, m), nil
	case ServiceAppleMusic:
		return metrics.Instrument(&applemusic.Client{}, ServiceAppleMusic, m), nil
	case ServiceYouTube:
		return metrics.Instrument(&youtube.Client{Key: c.YouTubeAPIKey}, ServiceYouTube, m), nil
	case ServiceSoundCloud:
		return metrics.Instrument(&soundcloud.Client{ClientID: c.SoundCloudClientID}, ServiceSoundCloud, m), nil
	case ServiceTidal:
		return metrics.Instrument(&tidal.Client{Token: c.TidalToken}, ServiceTidal, m), nil
	case ServiceAggregate:
		return newAggregate(ctx, c, m)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownService, c.Service)
}

func newAggregate(ctx context.Context, c Config, m *metrics.Metrics) (music.Service, error) {
	var svcs []music.Service
	if c.HasSpotify() {
		sc, err := spotify.NewSpotifyClient(ctx, c.SpotifyClientID, c.SpotifyClientSecret)
		if err != nil {
			// The other providers can still serve; keep going.
			log.WithError(err).Warn("aggregate: spotify unavailable")
		} else {
			svcs = append(svcs, metrics.Instrument(sc, ServiceSpotify, m))
		}
	}
	svcs = append(svcs, metrics.Instrument(&applemusic.Client{}, ServiceAppleMusic, m))
	if c.YouTubeAPIKey != "" {
		svcs = append(svcs, metrics.Instrument(&youtube.Client{Key: c.YouTubeAPIKey}, ServiceYouTube, m))
	}
	if c.SoundCloudClientID != "" {
		svcs = append(svcs, metrics.Instrument(&soundcloud.Client{ClientID: c.SoundCloudClientID}, ServiceSoundCloud, m))
	}
	if c.TidalToken != "" {
		svcs = append(svcs, metrics.Instrument(&tidal.Client{Token: c.TidalToken}, ServiceTidal, m))
	}
	log.WithField("providers", len(svcs)).Debug("aggregate catalog configured")
	return music.Aggregator{Services: svcs}, nil
}
