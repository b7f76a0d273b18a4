package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	libspotify "github.com/zmb3/spotify"

	"Mood-Music-Go/pkg/genre"
	"Mood-Music-Go/pkg/metrics"
	"Mood-Music-Go/pkg/music"
)

type call struct {
	genre string
	limit int
}

// fakeCatalog serves canned tracks per genre and records every search.
type fakeCatalog struct {
	tracks map[string][]music.Track
	err    error
	calls  []call
}

func (f *fakeCatalog) SearchGenre(_ context.Context, g string, limit int) ([]music.Track, error) {
	f.calls = append(f.calls, call{g, limit})
	if f.err != nil {
		return nil, f.err
	}
	ts := f.tracks[g]
	if len(ts) == 0 {
		return nil, music.ErrNoTracks
	}
	if len(ts) > limit {
		ts = ts[:limit]
	}
	return ts, nil
}

// newCatalog returns a fake with n distinct tracks for each configured genre.
func newCatalog(n int) *fakeCatalog {
	f := &fakeCatalog{tracks: map[string][]music.Track{}}
	for _, g := range []string{genre.Pop, genre.Rock, genre.Soul, genre.Blues, genre.Classical} {
		for i := 0; i < n; i++ {
			f.tracks[g] = append(f.tracks[g], music.Track{SimpleTrack: libspotify.SimpleTrack{
				ID:      libspotify.ID(fmt.Sprintf("%s-%d", g, i)),
				Name:    fmt.Sprintf("%s Song %d", g, i),
				Artists: []libspotify.SimpleArtist{{Name: g + " Artist"}},
			}})
		}
	}
	return f
}

// seqRand replays fixed values so draws are predictable.
type seqRand struct {
	vals []int
	i    int
}

func (s *seqRand) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}

func seeded() Rand { return rand.New(rand.NewPCG(1, 2)) }

func assertTracks(t *testing.T, tracks []string, k int, genreName string) {
	t.Helper()
	if len(tracks) != k {
		t.Fatalf("expected %d tracks got %d: %v", k, len(tracks), tracks)
	}
	seen := map[string]bool{}
	for _, tr := range tracks {
		if seen[tr] {
			t.Errorf("duplicate track %q", tr)
		}
		seen[tr] = true
		want := " by " + genreName + " Artist"
		if !strings.HasPrefix(tr, genreName+" Song ") || !strings.HasSuffix(tr, want) {
			t.Errorf("track %q not from %s results", tr, genreName)
		}
	}
}

func TestRecommendMatchedGenre(t *testing.T) {
	svc := newCatalog(10)
	e := New(svc, WithRand(seeded()))

	res, err := e.Recommend(context.Background(), "I feel happy today")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Genre != genre.Pop || res.Fallback {
		t.Errorf("expected direct Pop result, got %+v", res)
	}
	assertTracks(t, res.Tracks, DefaultSampleSize, genre.Pop)
	if len(svc.calls) != 1 || svc.calls[0] != (call{genre.Pop, DefaultMatchLimit}) {
		t.Errorf("unexpected searches %+v", svc.calls)
	}
	if res.ID == "" || res.Mood != "I feel happy today" {
		t.Errorf("id or mood missing: %+v", res)
	}
}

// TestRecommendLaterGenre verifies that genres after the first are reachable
// in the default mode.
func TestRecommendLaterGenre(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"wild night", genre.Rock},
		{"a bit confused", genre.Soul},
		{"so SAD", genre.Blues},
		{"calm", genre.Classical},
	}
	for _, tt := range tests {
		svc := newCatalog(10)
		res, err := New(svc, WithRand(seeded())).Recommend(context.Background(), tt.text)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.text, err)
		}
		if res.Genre != tt.want || res.Fallback {
			t.Errorf("%q: got %s (fallback=%v), want %s", tt.text, res.Genre, res.Fallback, tt.want)
		}
		assertTracks(t, res.Tracks, DefaultSampleSize, tt.want)
	}
}

func TestRecommendFallback(t *testing.T) {
	svc := newCatalog(10)
	// IntN(5) returns 1 first, so the fallback draw is 2: Rock.
	e := New(svc, WithRand(&seqRand{vals: []int{1, 0, 0, 0, 0}}))

	res, err := e.Recommend(context.Background(), "xyzzy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Fallback || res.Genre != genre.Rock {
		t.Errorf("expected Rock fallback, got %+v", res)
	}
	assertTracks(t, res.Tracks, DefaultSampleSize, genre.Rock)
	if len(svc.calls) != 1 || svc.calls[0] != (call{genre.Rock, DefaultFallbackLimit}) {
		t.Errorf("unexpected searches %+v", svc.calls)
	}
}

// TestRecommendLegacyShortCircuit pins the original behaviour: input that
// matches a later genre still takes the fallback path because only Pop is
// checked, and every genre gets a fallback search.
func TestRecommendLegacyShortCircuit(t *testing.T) {
	svc := newCatalog(10)
	e := New(svc, WithMatchMode(Legacy), WithRand(&seqRand{vals: []int{3}}))

	res, err := e.Recommend(context.Background(), "so sad")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Every draw is 4: Blues, but through the fallback path.
	if !res.Fallback || res.Genre != genre.Blues {
		t.Errorf("expected Blues fallback, got %+v", res)
	}
	if len(svc.calls) != genre.Default().Len() {
		t.Fatalf("expected one fallback search per genre, got %d", len(svc.calls))
	}
	for _, c := range svc.calls {
		if c.limit != DefaultFallbackLimit {
			t.Errorf("fallback search used limit %d", c.limit)
		}
	}
	assertTracks(t, res.Tracks, DefaultSampleSize, genre.Blues)
}

func TestRecommendLegacyMatch(t *testing.T) {
	svc := newCatalog(10)
	res, err := New(svc, WithMatchMode(Legacy), WithRand(seeded())).Recommend(context.Background(), "DANCE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Fallback || res.Genre != genre.Pop || len(svc.calls) != 1 {
		t.Errorf("expected single direct Pop search, got %+v calls=%+v", res, svc.calls)
	}
}

func TestRecommendSampleSizeFive(t *testing.T) {
	svc := newCatalog(10)
	res, err := New(svc, WithSampleSize(5), WithRand(seeded())).Recommend(context.Background(), "upbeat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTracks(t, res.Tracks, 5, genre.Pop)
}

// TestRecommendLargeSampleSize checks that searches ask for at least K
// tracks, so a K above the default limits is served on every path.
func TestRecommendLargeSampleSize(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		mode  MatchMode
		k     int
		genre string
	}{
		{"fallback", "xyzzy", FirstMatch, 6, genre.Blues},
		{"legacy fallback", "xyzzy", Legacy, 7, genre.Blues},
		{"matched", "happy", FirstMatch, 11, genre.Pop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCatalog(50)
			e := New(svc, WithSampleSize(tt.k), WithMatchMode(tt.mode), WithRand(&seqRand{vals: []int{3}}))
			res, err := e.Recommend(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertTracks(t, res.Tracks, tt.k, tt.genre)
			for _, c := range svc.calls {
				if c.limit != tt.k {
					t.Errorf("search %+v asked for fewer than %d tracks", c, tt.k)
				}
			}
		})
	}
}

// TestRecommendInsufficient checks that too few candidates is an explicit
// error instead of a short or repeating list.
func TestRecommendInsufficient(t *testing.T) {
	svc := newCatalog(3)
	_, err := New(svc, WithRand(seeded())).Recommend(context.Background(), "happy")
	var ie *InsufficientResultsError
	if !errors.As(err, &ie) || ie.Want != 4 || ie.Have != 3 {
		t.Fatalf("expected insufficient results error, got %v", err)
	}
	if !errors.Is(err, ErrInsufficientResults) {
		t.Errorf("error should match ErrInsufficientResults")
	}
}

func TestRecommendCatalogError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&fakeCatalog{err: boom}).Recommend(context.Background(), "happy")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestRecommendNoResults(t *testing.T) {
	_, err := New(&fakeCatalog{}).Recommend(context.Background(), "happy")
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestRecommendEmptyInput(t *testing.T) {
	svc := newCatalog(10)
	_, err := New(svc, WithRequireInput(true)).Recommend(context.Background(), "  \n\t")
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if len(svc.calls) != 0 {
		t.Errorf("catalog searched for empty input")
	}

	// Without the guard, empty text matches nothing and falls back.
	res, err := New(svc, WithRand(seeded())).Recommend(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Fallback {
		t.Errorf("expected fallback for empty text, got %+v", res)
	}
}

func TestRecommendEmptyCatalog(t *testing.T) {
	_, err := New(newCatalog(10), WithCatalog(genre.NewCatalog())).Recommend(context.Background(), "happy")
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

// TestRecommendRepeated checks invariants hold across calls and that nothing
// accumulates between them.
func TestRecommendRepeated(t *testing.T) {
	svc := newCatalog(10)
	e := New(svc)
	for i := 0; i < 20; i++ {
		res, err := e.Recommend(context.Background(), "xyzzy")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		assertTracks(t, res.Tracks, DefaultSampleSize, res.Genre)
	}
	if len(svc.calls) != 20 {
		t.Errorf("expected one search per call, got %d", len(svc.calls))
	}
}

// TestFallbackGenreDraws pins the draw mapping. Draw 5 shares the Classical
// branch with out-of-range values; the draw is uniform over 1..5 so Classical
// gets one fallback in five, the same as every other genre.
func TestFallbackGenreDraws(t *testing.T) {
	e := New(newCatalog(1), WithRand(&seqRand{vals: []int{0, 1, 2, 3, 4}}))
	want := []string{genre.Pop, genre.Rock, genre.Soul, genre.Blues, genre.Classical}
	for i, w := range want {
		if got := e.FallbackGenre(); got != w {
			t.Errorf("draw %d: got %s want %s", i+1, got, w)
		}
	}
}

func TestFetchCandidatesFresh(t *testing.T) {
	e := New(newCatalog(5))
	first, err := e.FetchCandidates(context.Background(), genre.Soul, 5)
	if err != nil {
		t.Fatal(err)
	}
	first[0] = "mutated"
	second, err := e.FetchCandidates(context.Background(), genre.Soul, 5)
	if err != nil {
		t.Fatal(err)
	}
	if second[0] != "Soul Song 0 by Soul Artist" {
		t.Errorf("candidate pool shared between calls: %q", second[0])
	}
}

func TestRecommendMetricsAndLogs(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := metrics.New()
	e := New(newCatalog(10),
		WithRand(seeded()),
		WithLogger(logger),
		WithMetrics(m),
		WithIDFunc(func() string { return "req-1" }),
	)
	res, err := e.Recommend(context.Background(), "happy")
	if err != nil {
		t.Fatal(err)
	}
	if res.ID != "req-1" {
		t.Errorf("id = %q", res.ID)
	}
	last := hook.LastEntry()
	if last == nil || last.Message != "recommendation served" || last.Data["request_id"] != "req-1" || last.Data["genre"] != genre.Pop {
		t.Errorf("unexpected log entry %+v", last)
	}

	if _, err := New(newCatalog(1), WithMetrics(m), WithLogger(logger)).Recommend(context.Background(), "happy"); err == nil {
		t.Fatal("expected insufficient results")
	}
	if hook.LastEntry().Level != logrus.WarnLevel {
		t.Errorf("failure should log at warn level")
	}
	mfs, err := m.Registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	if !found["moodmusic_recommendations_total"] || !found["moodmusic_recommendation_failures_total"] {
		t.Errorf("metrics not recorded: %v", found)
	}
}
