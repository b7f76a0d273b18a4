// Package config reads runtime settings from the environment. Values from
// Credentials.env and .env in the working directory are loaded first; real
// environment variables win over both. Command-line flags override the
// loaded Config in the cmd packages.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Service names accepted in MUSIC_SERVICE.
const (
	ServiceSpotify    = "spotify"
	ServiceAppleMusic = "applemusic"
	ServiceYouTube    = "youtube"
	ServiceSoundCloud = "soundcloud"
	ServiceTidal      = "tidal"
	ServiceAggregate  = "aggregate"
)

// DefaultHTTPAddr is where cmd/web listens when HTTP_ADDR is unset.
const DefaultHTTPAddr = ":4000"

// EnvFiles are the dotenv files Load reads, in order. Earlier files win.
var EnvFiles = []string{"Credentials.env", ".env"}

var (
	// ErrUnknownService is returned for an unrecognised MUSIC_SERVICE.
	ErrUnknownService = errors.New("unknown music service")
	// ErrMissingCredentials is returned when the selected service lacks
	// the keys it needs.
	ErrMissingCredentials = errors.New("missing credentials")
)

// Config holds every setting the shells read.
type Config struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	Service             string
	YouTubeAPIKey       string
	SoundCloudClientID  string
	TidalToken          string
	// SampleSize is K. Zero means the shell's own default.
	SampleSize   int
	MatchMode    string
	DatabasePath string
	MetricsFile  string
	MetricsAddr  string
	HTTPAddr     string
	LogLevel     string
}

// Load reads the dotenv files, ignoring any that are missing, and then
// builds a Config from the environment.
func Load() Config {
	for _, f := range EnvFiles {
		_ = godotenv.Load(f)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		SpotifyClientID:     envStr("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: envStr("SPOTIFY_CLIENT_SECRET", ""),
		Service:             strings.ToLower(envStr("MUSIC_SERVICE", ServiceSpotify)),
		YouTubeAPIKey:       envStr("YOUTUBE_API_KEY", ""),
		SoundCloudClientID:  envStr("SOUNDCLOUD_CLIENT_ID", ""),
		TidalToken:          envStr("TIDAL_TOKEN", ""),
		SampleSize:          envInt("SAMPLE_SIZE", 0),
		MatchMode:           envStr("MATCH_MODE", ""),
		DatabasePath:        envStr("DATABASE_PATH", ""),
		MetricsFile:         envStr("METRICS_FILE", ""),
		MetricsAddr:         envStr("METRICS_ADDR", ""),
		HTTPAddr:            envStr("HTTP_ADDR", DefaultHTTPAddr),
		LogLevel:            envStr("LOG_LEVEL", ""),
	}
}

// Validate reports settings that would stop the selected service from
// working.
func (c Config) Validate() error {
	if c.SampleSize < 0 {
		return fmt.Errorf("SAMPLE_SIZE must not be negative, got %d", c.SampleSize)
	}
	switch c.Service {
	case ServiceSpotify:
		if c.SpotifyClientID == "" || c.SpotifyClientSecret == "" {
			return fmt.Errorf("%w: SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set", ErrMissingCredentials)
		}
	case ServiceYouTube:
		if c.YouTubeAPIKey == "" {
			return fmt.Errorf("%w: YOUTUBE_API_KEY must be set", ErrMissingCredentials)
		}
	case ServiceSoundCloud:
		if c.SoundCloudClientID == "" {
			return fmt.Errorf("%w: SOUNDCLOUD_CLIENT_ID must be set", ErrMissingCredentials)
		}
	case ServiceTidal:
		if c.TidalToken == "" {
			return fmt.Errorf("%w: TIDAL_TOKEN must be set", ErrMissingCredentials)
		}
	case ServiceAppleMusic, ServiceAggregate:
	default:
		return fmt.Errorf("%w %q", ErrUnknownService, c.Service)
	}
	return nil
}

// HasSpotify reports whether Spotify credentials are configured.
func (c Config) HasSpotify() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
