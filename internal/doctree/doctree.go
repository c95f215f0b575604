package doctree

import "strconv"

// Level identifies a disclosure tier. Level1 is outermost, Level3 innermost.
type Level int

const (
	Level1 Level = 1
	Level2 Level = 2
	Level3 Level = 3
)

// Levels lists every level, outermost first.
var Levels = [3]Level{Level1, Level2, Level3}

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	return l >= Level1 && l <= Level3
}

// Class returns the markup class used for regions of this level, e.g. "tldr2".
func (l Level) Class() string {
	return "tldr" + strconv.Itoa(int(l))
}

// OpenMarker returns the source marker that opens a region, e.g. "[tl2]".
func (l Level) OpenMarker() string {
	return "[tl" + strconv.Itoa(int(l)) + "]"
}

// CloseMarker returns the source marker that closes a region, e.g. "[/tl2]".
func (l Level) CloseMarker() string {
	return "[/tl" + strconv.Itoa(int(l)) + "]"
}

// Source is a loaded document before marker parsing.
type Source struct {
	Title  string // Document title (from metadata or filename)
	Markup string // Raw markup with [tlN] markers still in place
}

// Segment is a matched [tlN]...[/tlN] region.
type Segment struct {
	Level    Level
	Start    int        // Byte offset of the opening marker
	End      int        // Byte offset just past the closing marker
	Inner    string     // Text between the markers, markers of other levels included
	Children []*Segment // Segments whose span lies inside this one
}

// Tree is the parsed segment structure of one source text.
type Tree struct {
	Source  string
	Roots   []*Segment
	Matches [3][]string // Matches[N-1] holds every inner text matched for level N
}

// Segments returns every segment of the given level in source order.
func (t *Tree) Segments(level Level) []*Segment {
	var out []*Segment
	var walk func(nodes []*Segment)
	walk = func(nodes []*Segment) {
		for _, n := range nodes {
			if n.Level == level {
				out = append(out, n)
			}
			walk(n.Children)
		}
	}
	walk(t.Roots)
	return out
}

// MatchesFor returns the inner texts collected for a level, or nil for an invalid level.
func (t *Tree) MatchesFor(level Level) []string {
	if !level.Valid() {
		return nil
	}
	return t.Matches[level-1]
}
