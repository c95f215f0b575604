// Package readtime formats word counts as estimated reading times.
package readtime

import (
	"strconv"

	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/wordcount"
)

// DefaultWordsPerMinute is used when a formatter is configured with a non-positive rate.
const DefaultWordsPerMinute = 200

// Formatter turns word counts into display strings.
type Formatter struct {
	WordsPerMinute      int
	ShowPercentage      bool
	PercentageSeparator string
}

// Duration returns the reading time for w words, e.g. "4 min 30 sec" or "45 sec".
// Minutes are truncated and the remaining fraction of a minute is rounded up to
// whole seconds.
func (f Formatter) Duration(w int) string {
	if w < 0 {
		w = 0
	}
	r := f.WordsPerMinute
	if r <= 0 {
		r = DefaultWordsPerMinute
	}
	minutes := w / r
	seconds := (w%r*60 + r - 1) / r
	if minutes > 0 {
		return strconv.Itoa(minutes) + " min " + strconv.Itoa(seconds) + " sec"
	}
	return strconv.Itoa(seconds) + " sec"
}

// Percentage returns floor(100*w/total). A non-positive total yields 0.
func Percentage(w, total int) int {
	if total <= 0 || w <= 0 {
		return 0
	}
	return w * 100 / total
}

// Format returns the duration for w words, followed by the share of total when
// percentages are enabled.
func (f Formatter) Format(w, total int) string {
	s := f.Duration(w)
	if f.ShowPercentage {
		s += " " + f.PercentageSeparator + " " + strconv.Itoa(Percentage(w, total)) + "%"
	}
	return s
}

// Levels formats the cumulative reading time of each level: level 2 covers levels 1
// and 2, level 3 covers the whole document.
func (f Formatter) Levels(c wordcount.Counts) [3]string {
	var out [3]string
	for _, l := range doctree.Levels {
		out[l-1] = f.Format(c.Cumulative(l), c.Total)
	}
	return out
}

// Caption joins a control label and its reading time the way the controls display
// them. Either part may be switched off.
func Caption(label, reading, separator string, showLabel, showReading bool) string {
	var s string
	if showLabel {
		s = label
	}
	if showReading {
		if showLabel {
			s += " " + separator + " "
		}
		s += reading
	}
	return s
}
