package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stlex/internal/config"
	"stlex/internal/driver"
	"stlex/internal/lang"
	"stlex/internal/observ"
	"stlex/internal/source"
	"stlex/internal/token"
	"stlex/internal/tokfmt"
)

func newTokenizeTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "tokenize"}
	addTokenizeFlags(cmd.Flags())
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestReadModes(t *testing.T) {
	for in, want := range map[string]colorMode{"": colorAuto, "ON": colorOn, "never": colorOff} {
		got, err := readColorMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := readColorMode("sometimes")
	require.Error(t, err)

	for in, want := range map[string]uiMode{"": uiModeAuto, "on": uiModeOn, " Off ": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err = readUIMode("tui")
	require.Error(t, err)
	assert.True(t, shouldUseTUI(uiModeOn))
	assert.False(t, shouldUseTUI(uiModeOff))
}

func TestResolveTokenizeSettingsFromConfig(t *testing.T) {
	cfg := config.Default().Tokenize
	cfg.Format = "yaml"
	cfg.Coalesce = true
	cfg.Encoding = "cp1252"
	cfg.Jobs = 3
	cfg.Limit = 10

	s, err := resolveTokenizeSettings(newTokenizeTestCmd(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, tokfmt.FormatYAML, s.format)
	assert.True(t, s.lexer.Coalesce)
	assert.Equal(t, 10, s.lexer.MaxTokens)
	assert.Equal(t, source.EncodingWindows1252, s.load.Encoding)
	assert.Equal(t, 3, s.jobs)
	assert.Equal(t, uiModeAuto, s.ui)
}

func TestResolveTokenizeSettingsFlagsWin(t *testing.T) {
	cfg := config.Default().Tokenize
	cfg.Format = "yaml"
	cfg.Coalesce = true

	cmd := newTokenizeTestCmd(t, "--format=json", "--coalesce=false", "--keep-crlf", "--ui=off", "--limit=2")
	s, err := resolveTokenizeSettings(cmd, cfg)
	require.NoError(t, err)
	assert.Equal(t, tokfmt.FormatJSON, s.format)
	assert.False(t, s.lexer.Coalesce)
	assert.True(t, s.load.KeepCRLF)
	assert.Equal(t, uiModeOff, s.ui)
	assert.Equal(t, 2, s.lexer.MaxTokens)
}

func TestResolveTokenizeSettingsErrors(t *testing.T) {
	cfg := config.Default().Tokenize
	for _, args := range [][]string{
		{"--format=xml"},
		{"--encoding=ebcdic"},
		{"--jobs=-1"},
		{"--ui=maybe"},
	} {
		_, err := resolveTokenizeSettings(newTokenizeTestCmd(t, args...), cfg)
		require.Error(t, err, args)
	}
}

func TestFileOutputs(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.st", []byte("VAR"))
	results := []driver.FileResult{
		{Path: "a.st", FileID: id, Tokens: []token.Token{{Kind: token.Keyword, Span: source.Span{File: id, End: 3}, Text: "VAR"}}},
		{Path: "b.st", Err: errors.New("boom")},
	}

	outs := fileOutputs(results, fs)
	require.Len(t, outs, 2)
	assert.Equal(t, "Keyword", outs[0].Tokens[0].Kind)
	assert.Equal(t, "boom", outs[1].Error)
	assert.Nil(t, outs[1].Tokens)
	assert.Equal(t, 1, countFailed(results))
}

func TestKeywordsCommand(t *testing.T) {
	var buf bytes.Buffer
	keywordsCmd.SetOut(&buf)
	require.NoError(t, keywordsCmd.Flags().Set("table", "functions"))
	t.Cleanup(func() { _ = keywordsCmd.Flags().Set("table", "") })

	require.NoError(t, keywordsCmd.RunE(keywordsCmd, nil))
	words := bytes.Fields(buf.Bytes())
	require.Len(t, words, token.FunctionNames().Len())
	assert.Equal(t, "abs", string(words[0]))

	require.NoError(t, keywordsCmd.Flags().Set("table", "opcodes"))
	require.Error(t, keywordsCmd.RunE(keywordsCmd, nil))
}

func TestGuessPretty(t *testing.T) {
	var buf bytes.Buffer
	renderGuessPretty(&buf, guessPayload{
		File:       "main.st",
		Language:   "structuredtext",
		Confidence: "certain",
		Score:      3,
		Hints: []guessHint{
			{Score: 1, Reason: "filename matches *.st"},
			{Score: 2, Reason: "END_PROGRAM keyword", Line: 4, Source: "END_PROGRAM"},
		},
	})
	assert.Equal(t, "main.st: structuredtext certain (score 3)\n  +1 filename matches *.st\n  +2 END_PROGRAM keyword (line 4)\n      | END_PROGRAM\n", buf.String())
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Version: "1.2.3", GitCommit: "abc"}
	require.NoError(t, renderVersionJSON(&buf, info, versionOptions{format: "json", showHash: true, showDate: true}))

	var got versionPayload
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, versionPayload{Tool: "stlex", Version: "1.2.3", GitCommit: "abc", BuildDate: "unknown"}, got)
}

func TestVersionPretty(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	var buf bytes.Buffer
	renderVersionPretty(&buf, versionInfo{Version: "0.1.0-dev"}, versionOptions{showHash: true})
	assert.Contains(t, buf.String(), "stlex ")
	assert.Contains(t, buf.String(), "commit: unknown\n")
}

// newChildTestCmd mirrors the persistent flags of rootCmd on a fresh tree.
func newChildTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	root := &cobra.Command{Use: "stlex"}
	pf := root.PersistentFlags()
	pf.String("trace", "", "")
	pf.String("trace-level", "off", "")
	pf.String("trace-mode", "stream", "")
	pf.Int("trace-ring-size", 16, "")
	pf.Bool("timings", false, "")
	pf.String("cpu-profile", "", "")
	pf.String("mem-profile", "", "")
	pf.String("runtime-trace", "", "")

	child := &cobra.Command{Use: "tokenize"}
	root.AddCommand(child)
	require.NoError(t, child.ParseFlags(args))
	child.SetContext(context.Background())
	return child
}

func TestPrintTimings(t *testing.T) {
	timer := observ.NewTimer()
	timer.End(timer.Begin("tokenize"), "1 tokens")

	var quiet bytes.Buffer
	off := newChildTestCmd(t)
	off.SetErr(&quiet)
	printTimings(off, timer)
	assert.Empty(t, quiet.String())

	var buf bytes.Buffer
	on := newChildTestCmd(t, "--timings")
	on.SetErr(&buf)
	printTimings(on, timer)
	assert.Contains(t, buf.String(), "tokenize")
	assert.Contains(t, buf.String(), "(1 tokens)")
}

func TestBeginCommandWritesHeapProfile(t *testing.T) {
	heap := filepath.Join(t.TempDir(), "mem.pprof")
	cmd := newChildTestCmd(t, "--mem-profile", heap)

	finish, err := beginCommand(cmd)
	require.NoError(t, err)
	finish(nil)

	info, err := os.Stat(heap)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestHighlightLoadOptions(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "highlight"}
		addHighlightFlags(cmd.Flags())
		require.NoError(t, cmd.Flags().Parse(args))
		return cmd
	}
	cfg := config.Default().Tokenize
	cfg.Encoding = "latin1"

	load, err := highlightLoadOptions(newCmd(), cfg)
	require.NoError(t, err)
	assert.Equal(t, source.LoadOptions{Encoding: source.EncodingLatin1, KeepCRLF: true}, load)

	load, err = highlightLoadOptions(newCmd("--keep-crlf=false", "--encoding", "utf-8"), cfg)
	require.NoError(t, err)
	assert.Equal(t, source.LoadOptions{Encoding: source.EncodingUTF8}, load)

	_, err = highlightLoadOptions(newCmd("--encoding", "ebcdic"), cfg)
	require.Error(t, err)
}

func newDirFS(t *testing.T, names ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, name := range names {
		require.NoError(t, afero.WriteFile(fsys, "/plc/"+name, []byte("PROGRAM p END_PROGRAM"), 0o644))
	}
	return fsys
}

func TestTokenizeWithViewCompletes(t *testing.T) {
	opts := driver.Options{FS: newDirFS(t, "a.st", "b.st"), Jobs: 1}

	var seen int
	_, results, err := tokenizeWithView(context.Background(), "/plc", opts, 0, func(events <-chan driver.Event) error {
		for range events {
			seen++
		}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotEmpty(t, results[1].Tokens)
	assert.Positive(t, seen)
}

func TestTokenizeWithViewQuitCancelsDriver(t *testing.T) {
	opts := driver.Options{FS: newDirFS(t, "a.st", "b.st", "c.st"), Jobs: 1}

	// unbuffered events hold the driver at its first event until the view quits
	_, results, err := tokenizeWithView(context.Background(), "/plc", opts, 0, func(events <-chan driver.Event) error {
		<-events
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errInterrupted)
	assert.ErrorIs(t, err, context.Canceled)
	for _, r := range results {
		assert.Empty(t, r.Tokens)
	}
}

func TestTokenizeWithViewError(t *testing.T) {
	opts := driver.Options{FS: newDirFS(t, "a.st"), Jobs: 1}
	boom := errors.New("no tty")

	_, _, err := tokenizeWithView(context.Background(), "/plc", opts, 0, func(<-chan driver.Event) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestGuessHintsQuoteSourceLine(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("main.st", []byte("PROGRAM main\n  x := 1;\n  END_PROGRAM  \n")))
	res := lang.Detect(file, "")

	hints := guessHints(file, res.Hints)
	var found bool
	for _, h := range hints {
		if h.Line == 3 {
			found = true
			assert.Equal(t, "END_PROGRAM", h.Source)
		}
		if h.Line == 0 {
			assert.Empty(t, h.Source)
		}
	}
	assert.True(t, found, "%+v", hints)
}
