// Package wordcount derives per-level word counts from a parsed segment tree.
package wordcount

import (
	"strings"

	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/marker"
)

// Options tunes token counting.
type Options struct {
	// LegacyEmptyCount counts an empty match as one word, the way splitting an empty
	// string on spaces yields a single empty token.
	LegacyEmptyCount bool
}

// Counts holds raw and net word counts per level, indexed by level-1.
type Counts struct {
	Raw   [3]int
	Net   [3]int
	Total int
}

// NetFor returns the words attributable only to the given level.
func (c Counts) NetFor(level doctree.Level) int {
	if !level.Valid() {
		return 0
	}
	return c.Net[level-1]
}

// Cumulative returns the sum of net counts for levels 1 through level.
func (c Counts) Cumulative(level doctree.Level) int {
	sum := 0
	for _, l := range doctree.Levels {
		if l > level {
			break
		}
		sum += c.Net[l-1]
	}
	return sum
}

// Count computes word counts for a tree. Level 1's raw count covers the whole
// document; level 2 excludes nested level-3 regions; net level 1 is what remains
// after subtracting levels 2 and 3.
func Count(tree *doctree.Tree, opts Options) Counts {
	var c Counts

	c.Raw[0] = Words(tree.Source, opts)
	for _, m := range tree.MatchesFor(doctree.Level2) {
		c.Raw[1] += Words(marker.StripPairs(m, doctree.Level3), opts)
	}
	for _, m := range tree.MatchesFor(doctree.Level3) {
		c.Raw[2] += Words(m, opts)
	}

	c.Net[2] = c.Raw[2]
	c.Net[1] = c.Raw[1]
	c.Net[0] = c.Raw[0] - c.Raw[1] - c.Raw[2]
	c.Total = c.Net[0] + c.Net[1] + c.Net[2]
	return c
}

// Words counts the words of one match after removing marker tokens. Any whitespace
// separates words, so a lone tab counts as a break. Text from marker.PlainText carries
// single spaces only, where this matches a split on spaces after collapsing runs.
func Words(s string, opts Options) int {
	n := len(strings.Fields(marker.StripTokens(s)))
	if n == 0 && opts.LegacyEmptyCount {
		return 1
	}
	return n
}
