package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, "mark", cfg.MarkerStyle().Tag)
	assert.True(t, cfg.FilterOptions().HideHidden)
	assert.Contains(t, cfg.FilterOptions().ExcludedTags, "textarea")
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
version: 1
filter:
  excluded_tags: [script, style, pre]
  min_length: 2
marker:
  tag: span
  class: hit
  style: "background: yellow"
viewer:
  highlight_color: teal
log:
  level: debug
`), "test-valid")
	require.NoError(t, err)

	assert.Equal(t, []string{"script", "style", "pre"}, cfg.Filter.ExcludedTags)
	assert.Equal(t, 2, cfg.FilterOptions().MinLength)
	assert.True(t, cfg.Filter.HideHidden, "keys not in the file keep their defaults")
	assert.Equal(t, "span", cfg.MarkerStyle().Tag)
	assert.Equal(t, "hit", cfg.MarkerStyle().Class)
	assert.Equal(t, 4, cfg.Viewer.TabWidth)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseEmptyFileYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil, "test-empty")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"version", "version: 2", "unsupported config version"},
		{"unknown key", "viewer:\n  colour: red", "parse YAML"},
		{"bad yaml", "version: [", "parse YAML"},
		{"empty tag", "marker:\n  tag: ''", "marker.tag is required"},
		{"bad tag", "marker:\n  tag: 'my mark'", "marker.tag invalid element name"},
		{"empty excluded tag", "filter:\n  excluded_tags: [script, '']", "filter.excluded_tags[1] must not be empty"},
		{"negative length", "filter:\n  min_length: -1", "filter.min_length must be >= 0"},
		{"tab width", "viewer:\n  tab_width: 0", "viewer.tab_width must be between 1 and 16"},
		{"color", "viewer:\n  highlight_color: not-a-color", "viewer.highlight_color unknown color"},
		{"level", "log:\n  level: loud", "log.level unknown level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test-"+tt.name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAndPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "selmark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewer:\n  wrap: false\n"), 0o644))

	t.Setenv(EnvConfig, path)
	assert.Equal(t, path, Path(""))
	assert.Equal(t, "other.yaml", Path("other.yaml"))

	cfg, err := LoadOrDefault(Path(""))
	require.NoError(t, err)
	assert.False(t, cfg.Viewer.Wrap)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	t.Setenv(EnvConfig, "")
	cfg, err = LoadOrDefault(Path(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
