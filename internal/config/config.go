package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/selmark/internal/dom"
	"github.com/kk-code-lab/selmark/internal/highlight"
	"github.com/kk-code-lab/selmark/internal/textutil"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the config file when none is given on the command line.
const EnvConfig = "SELMARK_CONFIG"

type File struct {
	Version int    `yaml:"version" json:"version"`
	Filter  Filter `yaml:"filter" json:"filter"`
	Marker  Marker `yaml:"marker" json:"marker"`
	Viewer  Viewer `yaml:"viewer" json:"viewer"`
	Log     Log    `yaml:"log" json:"log"`
}

type Filter struct {
	ExcludedTags []string `yaml:"excluded_tags" json:"excluded_tags"`
	HideHidden   bool     `yaml:"hide_hidden" json:"hide_hidden"`
	MinLength    int      `yaml:"min_length" json:"min_length"`
}

type Marker struct {
	Tag   string `yaml:"tag" json:"tag"`
	Class string `yaml:"class,omitempty" json:"class,omitempty"`
	Style string `yaml:"style,omitempty" json:"style,omitempty"`
}

type Viewer struct {
	Wrap           bool   `yaml:"wrap" json:"wrap"`
	TabWidth       int    `yaml:"tab_width" json:"tab_width"`
	HighlightColor string `yaml:"highlight_color" json:"highlight_color"`
	Watch          bool   `yaml:"watch" json:"watch"`
}

type Log struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	filter := highlight.DefaultFilterOptions()
	marker := highlight.DefaultMarkerStyle()
	return File{
		Version: 1,
		Filter: Filter{
			ExcludedTags: filter.ExcludedTags,
			HideHidden:   filter.HideHidden,
			MinLength:    filter.MinLength,
		},
		Marker: Marker{Tag: marker.Tag, Class: marker.Class, Style: marker.Style},
		Viewer: Viewer{
			Wrap:           true,
			TabWidth:       textutil.DefaultTabWidth,
			HighlightColor: "#ffd500",
			Watch:          true,
		},
		Log: Log{Level: "info"},
	}
}

// Path returns explicit, or the file named by SELMARK_CONFIG, or "".
func Path(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return strings.TrimSpace(os.Getenv(EnvConfig))
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (File, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file %q: %w", path, err)
	}

	return Parse(data, path)
}

// Parse decodes data on top of Default, so a file only needs the keys it
// changes.
func Parse(data []byte, source string) (File, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (cfg File) Validate() []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported config version %d", cfg.Version))
	}

	for i, tag := range cfg.Filter.ExcludedTags {
		if strings.TrimSpace(tag) == "" {
			errs = append(errs, fmt.Sprintf("filter.excluded_tags[%d] must not be empty", i))
		}
	}
	if cfg.Filter.MinLength < 0 {
		errs = append(errs, "filter.min_length must be >= 0")
	}

	tag := strings.TrimSpace(cfg.Marker.Tag)
	if tag == "" {
		errs = append(errs, "marker.tag is required")
	} else if strings.ContainsAny(tag, " \t\n\r<>/\"'=") {
		errs = append(errs, fmt.Sprintf("marker.tag invalid element name %q", tag))
	}
	if strings.TrimSpace(cfg.Marker.Style) != "" && len(dom.ParseDeclarations(cfg.Marker.Style, nil)) == 0 {
		errs = append(errs, fmt.Sprintf("marker.style has no valid CSS declarations: %q", cfg.Marker.Style))
	}

	if cfg.Viewer.TabWidth < 1 || cfg.Viewer.TabWidth > 16 {
		errs = append(errs, "viewer.tab_width must be between 1 and 16")
	}
	if tcell.GetColor(cfg.Viewer.HighlightColor) == tcell.ColorDefault {
		errs = append(errs, fmt.Sprintf("viewer.highlight_color unknown color %q", cfg.Viewer.HighlightColor))
	}

	if _, err := cfg.Log.SlogLevel(); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %v", err))
	}
	return errs
}

// FilterOptions converts the filter section for the highlight engine.
func (cfg File) FilterOptions() highlight.FilterOptions {
	return highlight.FilterOptions{
		ExcludedTags: append([]string(nil), cfg.Filter.ExcludedTags...),
		HideHidden:   cfg.Filter.HideHidden,
		MinLength:    cfg.Filter.MinLength,
	}
}

// MarkerStyle converts the marker section for the highlight engine.
func (cfg File) MarkerStyle() highlight.MarkerStyle {
	return highlight.MarkerStyle{
		Tag:   strings.TrimSpace(cfg.Marker.Tag),
		Class: cfg.Marker.Class,
		Style: cfg.Marker.Style,
	}
}

// SlogLevel parses the level name. An empty level means info.
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(l.Level) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", l.Level)
	}
	return level, nil
}
