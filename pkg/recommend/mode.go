package recommend

import (
	"fmt"
	"strings"
)

// MatchMode selects how mood text is checked against the catalog.
type MatchMode int

const (
	// FirstMatch checks every genre in priority order and uses the first
	// match, falling back only when none match.
	FirstMatch MatchMode = iota
	// Legacy checks only the first genre and otherwise takes the fallback
	// path. Kept for parity with the original recommender.
	Legacy
)

func (m MatchMode) String() string {
	switch m {
	case FirstMatch:
		return "first"
	case Legacy:
		return "legacy"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode reads a mode name. The empty string means FirstMatch.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first", "first-match":
		return FirstMatch, nil
	case "legacy":
		return Legacy, nil
	default:
		return 0, fmt.Errorf("unknown match mode %q (want first or legacy)", s)
	}
}
