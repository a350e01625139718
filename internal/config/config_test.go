package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[tokenize]
format = "json"
coalesce = true
encoding = "windows-1252"
jobs = 4

[highlight]
theme = "default"
[highlight.colors]
"Keyword" = "9"
"Name.Function" = "#00ff00"
`

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, body := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
	}
	return fsys
}

func TestDiscoverWalksUp(t *testing.T) {
	fsys := memFS(t, map[string]string{
		"/plant/stlex.toml":        sampleConfig,
		"/plant/line1/pou/main.st": "PROGRAM main END_PROGRAM",
	})

	cfg, path, err := Discover(fsys, "/plant/line1/pou")
	require.NoError(t, err)
	assert.Equal(t, "/plant/stlex.toml", path)
	assert.Equal(t, "json", cfg.Tokenize.Format)
	assert.True(t, cfg.Tokenize.Coalesce)
	assert.Equal(t, "windows-1252", cfg.Tokenize.Encoding)
	assert.Equal(t, 4, cfg.Tokenize.Jobs)
	assert.Equal(t, map[string]string{"Keyword": "9", "Name.Function": "#00ff00"}, cfg.Highlight.Colors)
}

func TestDiscoverDefaults(t *testing.T) {
	cfg, path, err := Discover(memFS(t, nil), "/nowhere")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	fsys := memFS(t, map[string]string{"/stlex.toml": "[tokenize]\ncache = true\n"})
	cfg, err := Load(fsys, "/stlex.toml")
	require.NoError(t, err)
	assert.True(t, cfg.Tokenize.Cache)
	assert.Equal(t, "pretty", cfg.Tokenize.Format)
	assert.Equal(t, "utf-8", cfg.Tokenize.Encoding)
	assert.Equal(t, ThemeDefault, cfg.Highlight.Theme)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[tokenize\n", "failed to parse TOML"},
		{"unknown key", "[tokenize]\nspeed = 3\n", "unknown keys: tokenize.speed"},
		{"format", "[tokenize]\nformat = \"xml\"\n", "[tokenize].format"},
		{"encoding", "[tokenize]\nencoding = \"ebcdic\"\n", "[tokenize].encoding"},
		{"jobs", "[tokenize]\njobs = -1\n", "[tokenize].jobs"},
		{"limit", "[tokenize]\nlimit = -5\n", "[tokenize].limit"},
		{"theme", "[highlight]\ntheme = \"solarized\"\n", "[highlight].theme"},
		{"color key", "[highlight.colors]\nNumber = \"1\"\n", "[highlight.colors]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := memFS(t, map[string]string{"/stlex.toml": tt.body})
			_, err := Load(fsys, "/stlex.toml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "/stlex.toml")
		})
	}
}

func TestHighlightColors(t *testing.T) {
	cfg := Default()
	assert.Nil(t, cfg.HighlightColors())

	cfg.Highlight.Theme = ThemeNone
	cfg.Highlight.Colors = map[string]string{"Keyword": "1"}
	colors := cfg.HighlightColors()
	assert.Equal(t, "1", colors["Keyword"])
	assert.Equal(t, "", colors["Keyword.Type"])
	assert.Contains(t, colors, "Comment.Single")
}
