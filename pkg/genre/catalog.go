package genre

import "strings"

// Catalog is an ordered, read-only list of genres. The zero value is empty;
// use Default for the built-in six.
type Catalog struct {
	genres []Genre
}

// Default returns the built-in catalog in priority order.
func Default() Catalog {
	return NewCatalog(
		Genre{Name: Pop, Keywords: []string{"happy", "dance", "upbeat"}},
		Genre{Name: Rock, Keywords: []string{"wild", "cool", "free"}},
		Genre{Name: Soul, Keywords: []string{"enlightened", "stoic", "confused"}},
		Genre{Name: Blues, Keywords: []string{"sad", "blue", "melancholy"}},
		Genre{Name: Classical, Keywords: []string{"calm", "relax", "neutral"}},
		Genre{Name: Random, Keywords: []string{"", "i don't know"}},
	)
}

// NewCatalog builds a catalog from genres, keeping their order. Keyword
// slices are copied so later changes by the caller do not leak in.
func NewCatalog(genres ...Genre) Catalog {
	gs := make([]Genre, len(genres))
	for i, g := range genres {
		kws := make([]string, len(g.Keywords))
		copy(kws, g.Keywords)
		gs[i] = Genre{Name: g.Name, Keywords: kws}
	}
	return Catalog{genres: gs}
}

// Genres returns a copy of the catalog entries in priority order.
func (c Catalog) Genres() []Genre {
	out := make([]Genre, len(c.genres))
	copy(out, c.genres)
	return out
}

// Len returns the number of configured genres.
func (c Catalog) Len() int { return len(c.genres) }

// First returns the highest priority genre. ok is false for an empty catalog.
func (c Catalog) First() (Genre, bool) {
	if len(c.genres) == 0 {
		return Genre{}, false
	}
	return c.genres[0], true
}

// Lookup finds a genre by name, ignoring case.
func (c Catalog) Lookup(name string) (Genre, bool) {
	for _, g := range c.genres {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return Genre{}, false
}

// FirstMatch scans the catalog in order and returns the first genre matching
// text. Catch-all genres are skipped: they match everything and only mean
// "nothing else matched", which callers detect through ok == false.
func (c Catalog) FirstMatch(text string) (Genre, bool) {
	for _, g := range c.genres {
		if IsFallback(g) {
			continue
		}
		if Matches(g, text) {
			return g, true
		}
	}
	return Genre{}, false
}
