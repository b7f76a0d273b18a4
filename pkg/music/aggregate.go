// Package music provides interfaces for interacting with music services.
// This file implements an aggregation service which combines multiple
// providers to broaden genre searches.
//
// An error is surfaced only when every configured service fails, so one
// unreachable provider does not hide results from the others.
package music

import (
	"context"
	"sync"
)

// Aggregator queries each configured Service and merges the results.
// It is useful when the application wants to search across multiple
// providers (e.g. Spotify and YouTube) simultaneously.
type Aggregator struct {
	Services []Service
}

var _ Service = Aggregator{}

// SearchGenre returns the union of results from all underlying services,
// asking each for limit tracks. Duplicates are removed based on track ID and
// the merged list is capped at limit. Failure of one service does not prevent
// results from others.
func (a Aggregator) SearchGenre(ctx context.Context, genre string, limit int) ([]Track, error) {
	if len(a.Services) == 0 {
		return nil, ErrNoTracks
	}
	type result struct {
		idx    int
		tracks []Track
		err    error
	}
	var wg sync.WaitGroup
	resCh := make(chan result, len(a.Services))
	for i, svc := range a.Services {
		i, svc := i, svc
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracks, err := svc.SearchGenre(ctx, genre, limit)
			resCh <- result{idx: i, tracks: tracks, err: err}
		}()
	}
	wg.Wait()
	close(resCh)

	// Merge in service order so the output is stable for a given set of
	// responses regardless of which goroutine finished first.
	ordered := make([]result, len(a.Services))
	for r := range resCh {
		ordered[r.idx] = r
	}
	seen := make(map[string]struct{})
	var merged []Track
	var firstErr error
	successes := 0
	for _, r := range ordered {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		successes++
		for _, t := range r.tracks {
			id := string(t.ID)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, t)
		}
	}
	if successes == 0 && firstErr != nil {
		return nil, firstErr
	}
	if len(merged) == 0 {
		return nil, ErrNoTracks
	}
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}
