package readtime

import (
	"testing"

	"github.com/dgallion1/tldr/internal/wordcount"
)

func TestDuration(t *testing.T) {
	f := Formatter{WordsPerMinute: 200}
	tests := []struct {
		words int
		want  string
	}{
		{0, "0 sec"},
		{-5, "0 sec"},
		{1, "1 sec"},
		{100, "30 sec"},
		{200, "1 min 0 sec"},
		{900, "4 min 30 sec"},
		{199, "60 sec"},
	}
	for _, tt := range tests {
		if got := f.Duration(tt.words); got != tt.want {
			t.Errorf("Duration(%d) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestDuration_DefaultRate(t *testing.T) {
	f := Formatter{}
	if got := f.Duration(400); got != "2 min 0 sec" {
		t.Errorf("expected default rate of 200 wpm, got %q", got)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		w, total, want int
	}{
		{900, 1000, 90},
		{1, 3, 33},
		{5, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
	}
	for _, tt := range tests {
		if got := Percentage(tt.w, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.w, tt.total, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	f := Formatter{WordsPerMinute: 200, ShowPercentage: true, PercentageSeparator: "•"}
	if got := f.Format(900, 1000); got != "4 min 30 sec • 90%" {
		t.Errorf("unexpected format %q", got)
	}
	if got := f.Format(0, 0); got != "0 sec • 0%" {
		t.Errorf("unexpected zero-total format %q", got)
	}

	f.ShowPercentage = false
	if got := f.Format(900, 1000); got != "4 min 30 sec" {
		t.Errorf("unexpected format without percentage %q", got)
	}
}

func TestLevels_Cumulative(t *testing.T) {
	f := Formatter{WordsPerMinute: 200, ShowPercentage: true, PercentageSeparator: "|"}
	c := wordcount.Counts{Net: [3]int{600, 300, 100}, Total: 1000}
	got := f.Levels(c)
	want := [3]string{"3 min 0 sec | 60%", "4 min 30 sec | 90%", "5 min 0 sec | 100%"}
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCaption(t *testing.T) {
	tests := []struct {
		name                   string
		showLabel, showReading bool
		want                   string
	}{
		{"both", true, true, "tldr2 • 30 sec"},
		{"label only", true, false, "tldr2"},
		{"reading only", false, true, "30 sec"},
		{"neither", false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Caption("tldr2", "30 sec", "•", tt.showLabel, tt.showReading); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
