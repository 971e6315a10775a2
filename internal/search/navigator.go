package search

// Navigator steps cyclically through an ordered match list.
type Navigator struct {
	matches []Match
	cur     int // -1 before the first step
}

// NewNavigator creates a navigator positioned before the first match.
func NewNavigator(matches []Match) *Navigator {
	return &Navigator{matches: matches, cur: -1}
}

// Len returns the number of matches.
func (n *Navigator) Len() int { return len(n.matches) }

// Matches returns all matches.
func (n *Navigator) Matches() []Match { return n.matches }

// Current returns the selected match, if any.
func (n *Navigator) Current() (Match, bool) {
	if n.cur < 0 || n.cur >= len(n.matches) {
		return Match{}, false
	}
	return n.matches[n.cur], true
}

// Position returns the index of the selected match, -1 if none.
func (n *Navigator) Position() int { return n.cur }

// Next selects the following match, wrapping to the first.
func (n *Navigator) Next() (Match, bool) {
	if len(n.matches) == 0 {
		return Match{}, false
	}
	n.cur = (n.cur + 1) % len(n.matches)
	return n.matches[n.cur], true
}

// Previous selects the preceding match, wrapping to the last.
func (n *Navigator) Previous() (Match, bool) {
	if len(n.matches) == 0 {
		return Match{}, false
	}
	if n.cur <= 0 {
		n.cur = len(n.matches) - 1
	} else {
		n.cur--
	}
	return n.matches[n.cur], true
}
