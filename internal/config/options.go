package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/marker"
	"github.com/dgallion1/tldr/internal/readtime"
	"github.com/dgallion1/tldr/internal/wordcount"
	"gopkg.in/yaml.v3"
)

// ErrInvalidOptions wraps every widget option validation failure.
var ErrInvalidOptions = errors.New("invalid widget options")

// Options configures one widget instance.
type Options struct {
	DefaultLevel     int          `yaml:"default_level" json:"default_level"`
	TextHighlighting bool         `yaml:"text_highlighting" json:"text_highlighting"`
	ButtonLabels     ButtonLabels `yaml:"button_labels" json:"button_labels"`
	ButtonColors     ButtonColors `yaml:"button_colors" json:"button_colors"`
	ReadingTime      ReadingTime  `yaml:"reading_time" json:"reading_time"`
	LevelColors      LevelColors  `yaml:"level_colors" json:"level_colors"`
}

type ButtonLabels struct {
	Show   bool   `yaml:"show" json:"show"`
	Level1 string `yaml:"level1" json:"level1"`
	Level2 string `yaml:"level2" json:"level2"`
	Level3 string `yaml:"level3" json:"level3"`
}

type ButtonColors struct {
	Level1Text       string `yaml:"level1_text" json:"level1_text"`
	Level2Text       string `yaml:"level2_text" json:"level2_text"`
	Level3Text       string `yaml:"level3_text" json:"level3_text"`
	Level1Background string `yaml:"level1_background" json:"level1_background"`
	Level2Background string `yaml:"level2_background" json:"level2_background"`
	Level3Background string `yaml:"level3_background" json:"level3_background"`
	ActiveBorder     string `yaml:"active_border" json:"active_border"`
}

type ReadingTime struct {
	Show                bool   `yaml:"show" json:"show"`
	WordsPerMinute      int    `yaml:"words_per_minute" json:"words_per_minute"`
	LabelSeparator      string `yaml:"label_separator" json:"label_separator"`
	ShowPercentage      bool   `yaml:"show_percentage" json:"show_percentage"`
	PercentageSeparator string `yaml:"percentage_separator" json:"percentage_separator"`
	LegacyEmptyCount    bool   `yaml:"legacy_empty_count" json:"legacy_empty_count"`
}

type LevelColors struct {
	Level1Text       string `yaml:"level1_text" json:"level1_text"`
	Level2Text       string `yaml:"level2_text" json:"level2_text"`
	Level3Text       string `yaml:"level3_text" json:"level3_text"`
	Level1Background string `yaml:"level1_background" json:"level1_background"`
	Level2Background string `yaml:"level2_background" json:"level2_background"`
	Level3Background string `yaml:"level3_background" json:"level3_background"`
}

// DefaultOptions returns the stock widget configuration.
func DefaultOptions() Options {
	return Options{
		DefaultLevel:     2,
		TextHighlighting: true,
		ButtonLabels: ButtonLabels{
			Show:   true,
			Level1: "tldr1",
			Level2: "tldr2",
			Level3: "tldr3",
		},
		ButtonColors: ButtonColors{
			Level1Text:       "#000",
			Level2Text:       "#000",
			Level3Text:       "#000",
			Level1Background: "#ffaaa7",
			Level2Background: "#ffd3b4",
			Level3Background: "#d5ecc2",
			ActiveBorder:     "#f00",
		},
		ReadingTime: ReadingTime{
			Show:                true,
			WordsPerMinute:      readtime.DefaultWordsPerMinute,
			LabelSeparator:      "•",
			ShowPercentage:      true,
			PercentageSeparator: "•",
		},
		LevelColors: LevelColors{
			Level1Text:       "#000",
			Level2Text:       "#000",
			Level3Text:       "#000",
			Level1Background: "#ffaaa7",
			Level2Background: "#ffd3b4",
			Level3Background: "#d5ecc2",
		},
	}
}

// ParseOptions decodes YAML or JSON over the defaults: keys present in data override,
// absent keys keep their default values at every nesting depth.
func ParseOptions(data []byte) (Options, error) {
	return MergeOptions(DefaultOptions(), data)
}

// MergeOptions decodes YAML or JSON over base and validates the result.
func MergeOptions(base Options, data []byte) (Options, error) {
	opts := base
	if len(bytes.TrimSpace(data)) == 0 {
		return opts, opts.Validate()
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptions reads widget options from path. An empty path yields the defaults.
func LoadOptions(path string) (Options, error) {
	if path == "" {
		return DefaultOptions(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options: %w", err)
	}
	return ParseOptions(data)
}

// Validate rejects values the widget cannot work with.
func (o Options) Validate() error {
	if !doctree.Level(o.DefaultLevel).Valid() {
		return fmt.Errorf("%w: default_level must be 1, 2 or 3, got %d", ErrInvalidOptions, o.DefaultLevel)
	}
	if o.ReadingTime.WordsPerMinute <= 0 {
		return fmt.Errorf("%w: words_per_minute must be positive, got %d", ErrInvalidOptions, o.ReadingTime.WordsPerMinute)
	}
	return nil
}

// Directives returns the region directives for the marker parser.
func (o Options) Directives() marker.Directives {
	c := o.LevelColors
	return marker.Directives{
		{Styled: o.TextHighlighting, Text: c.Level1Text, Background: c.Level1Background},
		{Styled: o.TextHighlighting, Text: c.Level2Text, Background: c.Level2Background},
		{Styled: o.TextHighlighting, Text: c.Level3Text, Background: c.Level3Background},
	}
}

// Formatter returns the reading-time formatter described by the options.
func (o Options) Formatter() readtime.Formatter {
	return readtime.Formatter{
		WordsPerMinute:      o.ReadingTime.WordsPerMinute,
		ShowPercentage:      o.ReadingTime.ShowPercentage,
		PercentageSeparator: o.ReadingTime.PercentageSeparator,
	}
}

// CountOptions returns the word counting options.
func (o Options) CountOptions() wordcount.Options {
	return wordcount.Options{LegacyEmptyCount: o.ReadingTime.LegacyEmptyCount}
}

// Label returns the control label for level.
func (o Options) Label(level doctree.Level) string {
	switch level {
	case doctree.Level1:
		return o.ButtonLabels.Level1
	case doctree.Level2:
		return o.ButtonLabels.Level2
	case doctree.Level3:
		return o.ButtonLabels.Level3
	}
	return ""
}

// ButtonColor returns the text and background colour of the control for level.
func (o Options) ButtonColor(level doctree.Level) (text, background string) {
	c := o.ButtonColors
	switch level {
	case doctree.Level1:
		return c.Level1Text, c.Level1Background
	case doctree.Level2:
		return c.Level2Text, c.Level2Background
	case doctree.Level3:
		return c.Level3Text, c.Level3Background
	}
	return "", ""
}

// RegionColor returns the text and background colour of regions of level.
func (o Options) RegionColor(level doctree.Level) (text, background string) {
	d := o.Directives()
	if !level.Valid() {
		return "", ""
	}
	return d[level-1].Text, d[level-1].Background
}
