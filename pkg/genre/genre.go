// Package genre holds the fixed genre catalog used to classify free-text mood
// descriptions. The catalog is configuration: six genres created once, in a
// fixed priority order, with no API for adding or removing entries.
//
// Matching is a case-insensitive substring test over each genre's keywords.
// Keyword sets overlap freely so the order of the catalog decides which genre
// wins when several match.
package genre

import "strings"

// Genre is a named category with the keywords that select it.
type Genre struct {
	Name     string
	Keywords []string
}

// Names of the configured genres.
const (
	Pop       = "Pop"
	Rock      = "Rock"
	Soul      = "Soul"
	Blues     = "Blues"
	Classical = "Classical"
	Random    = "Random"
)

// FallbackDraws is the number of outcomes of the random draw used to pick a
// substitute genre on the fallback path.
const FallbackDraws = 5

// Matches reports whether any keyword of g occurs in text, ignoring case. An
// empty keyword matches every input.
func Matches(g Genre, text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range g.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// IsFallback reports whether g is a catch-all genre. Reaching such a genre
// means no real genre matched and the random fallback path should run.
func IsFallback(g Genre) bool {
	for _, kw := range g.Keywords {
		if kw == "" {
			return true
		}
	}
	return false
}

// RandomFallbackName maps a draw in 1..FallbackDraws to a genre name. Draws
// 1-4 name Pop, Rock, Soul and Blues; 5 and any out of range value map to
// Classical, so Classical is the only genre reachable from invalid draws.
func RandomFallbackName(draw int) string {
	switch draw {
	case 1:
		return Pop
	case 2:
		return Rock
	case 3:
		return Soul
	case 4:
		return Blues
	default:
		return Classical
	}
}
