// Package config loads stlex.toml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"stlex/internal/source"
	"stlex/internal/token"
	"stlex/internal/tokfmt"
)

// FileName is the config file looked up from the working directory upward.
const FileName = "stlex.toml"

// Themes accepted by [highlight].theme.
const (
	ThemeDefault = "default"
	ThemeNone    = "none"
)

type Config struct {
	Tokenize  TokenizeConfig  `toml:"tokenize"`
	Highlight HighlightConfig `toml:"highlight"`
}

type TokenizeConfig struct {
	Format   string `toml:"format"`
	Coalesce bool   `toml:"coalesce"`
	Encoding string `toml:"encoding"`
	Jobs     int    `toml:"jobs"` // 0 = GOMAXPROCS
	Cache    bool   `toml:"cache"`
	Limit    int    `toml:"limit"` // tokens per file, 0 = no limit
}

type HighlightConfig struct {
	Theme  string            `toml:"theme"`
	Colors map[string]string `toml:"colors"` // category name -> lipgloss color
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Tokenize: TokenizeConfig{
			Format:   tokfmt.FormatPretty.String(),
			Encoding: string(source.EncodingUTF8),
		},
		Highlight: HighlightConfig{Theme: ThemeDefault},
	}
}

// Find walks up from startDir looking for stlex.toml.
func Find(fsys afero.Fs, startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := fsys.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path over Default and validates the result.
func Load(fsys afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest stlex.toml above startDir, or Default when none exists.
// The returned path is empty in the latter case.
func Discover(fsys afero.Fs, startDir string) (Config, string, error) {
	path, ok, err := Find(fsys, startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err := Load(fsys, path)
	return cfg, path, err
}

// Validate checks every field that has a closed set of values.
func (c Config) Validate() error {
	if _, err := tokfmt.ParseFormat(c.Tokenize.Format); err != nil {
		return fmt.Errorf("[tokenize].format: %w", err)
	}
	if _, err := source.ParseEncoding(c.Tokenize.Encoding); err != nil {
		return fmt.Errorf("[tokenize].encoding: %w", err)
	}
	if c.Tokenize.Jobs < 0 {
		return fmt.Errorf("[tokenize].jobs must be >= 0, got %d", c.Tokenize.Jobs)
	}
	if c.Tokenize.Limit < 0 {
		return fmt.Errorf("[tokenize].limit must be >= 0, got %d", c.Tokenize.Limit)
	}
	switch c.Highlight.Theme {
	case ThemeDefault, ThemeNone:
	default:
		return fmt.Errorf("[highlight].theme: unknown theme %q (expected: %s|%s)", c.Highlight.Theme, ThemeDefault, ThemeNone)
	}
	for name := range c.Highlight.Colors {
		if _, err := token.ParseKind(name); err != nil {
			return fmt.Errorf("[highlight.colors]: %w", err)
		}
	}
	return nil
}

// HighlightColors returns the color overrides for the configured theme.
// The "none" theme clears every category.
func (c Config) HighlightColors() map[string]string {
	if c.Highlight.Theme == ThemeNone {
		out := make(map[string]string, len(tokfmt.DefaultColors))
		for name := range tokfmt.DefaultColors {
			out[name] = ""
		}
		for name, col := range c.Highlight.Colors {
			out[name] = col
		}
		return out
	}
	return c.Highlight.Colors
}
