package spotify

import (
	"context"
	"errors"
	"testing"
	"time"

	libspotify "github.com/zmb3/spotify"
	"golang.org/x/oauth2"

	"Mood-Music-Go/pkg/music"
)

type fakeSearcher struct {
	lastQuery string
	lastType  libspotify.SearchType
	lastLimit int
	calls     int
	result    *libspotify.SearchResult
	err       error
}

func (f *fakeSearcher) SearchOpt(query string, t libspotify.SearchType, opt *libspotify.Options) (*libspotify.SearchResult, error) {
	f.calls++
	f.lastQuery = query
	f.lastType = t
	if opt != nil && opt.Limit != nil {
		f.lastLimit = *opt.Limit
	}
	return f.result, f.err
}

type fakeCreds struct {
	calls int
	token *oauth2.Token
	err   error
}

func (f *fakeCreds) Token(context.Context) (*oauth2.Token, error) {
	f.calls++
	return f.token, f.err
}

func TestSearchGenreFound(t *testing.T) {
	track := libspotify.FullTrack{SimpleTrack: libspotify.SimpleTrack{Name: "Song"}}
	sr := &libspotify.SearchResult{Tracks: &libspotify.FullTrackPage{Tracks: []libspotify.FullTrack{track}}}
	fs := &fakeSearcher{result: sr}
	sc := &SpotifyClient{client: fs}

	got, err := sc.SearchGenre(context.Background(), "Pop", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Song" {
		t.Errorf("unexpected result: %+v", got)
	}
	if fs.lastQuery != "genre:Pop" || fs.lastType != libspotify.SearchTypeTrack {
		t.Errorf("Search called with %s %v", fs.lastQuery, fs.lastType)
	}
	if fs.lastLimit != 10 {
		t.Errorf("limit not forwarded: %d", fs.lastLimit)
	}
}

func TestSearchGenreNotFound(t *testing.T) {
	sr := &libspotify.SearchResult{Tracks: &libspotify.FullTrackPage{}}
	sc := &SpotifyClient{client: &fakeSearcher{result: sr}}

	_, err := sc.SearchGenre(context.Background(), "Blues", 5)
	if !errors.Is(err, music.ErrNoTracks) {
		t.Fatalf("expected no tracks found error, got %v", err)
	}
	if err.Error() != "no tracks found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestSearchGenreError(t *testing.T) {
	apiErr := libspotify.Error{Message: "invalid access token", Status: 401}
	fs := &fakeSearcher{err: apiErr}
	sc := &SpotifyClient{client: fs}

	_, err := sc.SearchGenre(context.Background(), "Soul", 5)
	var got libspotify.Error
	if !errors.As(err, &got) || got.Status != 401 {
		t.Fatalf("expected wrapped spotify.Error, got %v", err)
	}
}

// TestSearchGenreCanceled ensures a canceled context stops the request before
// the wrapped client is reached.
func TestSearchGenreCanceled(t *testing.T) {
	fs := &fakeSearcher{}
	sc := &SpotifyClient{client: fs}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sc.SearchGenre(ctx, "Rock", 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fs.calls != 0 {
		t.Errorf("searcher called %d times after cancel", fs.calls)
	}
}

// TestCurrentKeepsValidToken checks that a live token is reused rather than
// fetched again.
func TestCurrentKeepsValidToken(t *testing.T) {
	creds := &fakeCreds{token: &oauth2.Token{AccessToken: "new", Expiry: time.Now().Add(time.Hour)}}
	fs := &fakeSearcher{}
	sc := &SpotifyClient{
		client: fs,
		creds:  creds,
		token:  &oauth2.Token{AccessToken: "live", Expiry: time.Now().Add(time.Hour)},
	}
	got, err := sc.current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != searcher(fs) || creds.calls != 0 {
		t.Errorf("valid token should not be refreshed (calls=%d)", creds.calls)
	}
}

func TestCurrentRefreshesExpiredToken(t *testing.T) {
	creds := &fakeCreds{token: &oauth2.Token{AccessToken: "new", Expiry: time.Now().Add(time.Hour)}}
	sc := &SpotifyClient{
		client: &fakeSearcher{},
		creds:  creds,
		token:  &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Minute)},
	}
	if _, err := sc.current(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.calls != 1 || sc.token.AccessToken != "new" {
		t.Errorf("expected one refresh, got calls=%d token=%s", creds.calls, sc.token.AccessToken)
	}
}

func TestCurrentRefreshError(t *testing.T) {
	creds := &fakeCreds{err: errors.New("bad client")}
	sc := &SpotifyClient{creds: creds}
	if _, err := sc.SearchGenre(context.Background(), "Pop", 1); err == nil {
		t.Fatal("expected auth error")
	}
}

func TestQuery(t *testing.T) {
	if q := Query("Classical"); q != "genre:Classical" {
		t.Errorf("Query = %q", q)
	}
}
