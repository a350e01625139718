package tokfmt

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"stlex/internal/lexer"
	"stlex/internal/source"
	"stlex/internal/token"
)

const sample = "PROGRAM main\n  x := ABS(-1); (* a\nb *)\nEND_PROGRAM\n"

func lexSample(t *testing.T, src string) ([]token.Token, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("sample.st", []byte(src)))
	return lexer.Collect(f, lexer.Options{}), fs
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":        FormatPretty,
		"JSON":    FormatJSON,
		"yml":     FormatYAML,
		"msgpack": FormatMsgpack,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, FormatMsgpack.Binary())
	assert.Equal(t, "yaml", FormatYAML.String())
}

func TestFormatTokensPretty(t *testing.T) {
	color.NoColor = true
	toks, fs := lexSample(t, "IF x THEN")

	var buf bytes.Buffer
	require.NoError(t, FormatTokensPretty(&buf, toks, fs))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, `  1: Keyword            "IF" at 1:1-1:3`, lines[0])
	assert.Equal(t, `  3: Name               "x" at 1:4-1:5`, lines[2])
}

func TestKindColor(t *testing.T) {
	assert.Same(t, commentColor, kindColor(token.CommentSingle))
	assert.Same(t, commentColor, kindColor(token.CommentMultiline))
	assert.Same(t, stringColor, kindColor(token.String))
	assert.Same(t, stringColor, kindColor(token.StringChar))
	assert.Same(t, keywordColor, kindColor(token.Keyword))
	assert.Nil(t, kindColor(token.Name))
	assert.Nil(t, kindColor(token.Other))
}

func TestFormatTokensJSON(t *testing.T) {
	toks, fs := lexSample(t, "x\n'c'")

	var buf bytes.Buffer
	require.NoError(t, FormatTokensJSON(&buf, toks, fs))

	var got []TokenOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 5)
	assert.Equal(t, "Name", got[0].Kind)
	assert.Equal(t, "String.Char", got[2].Kind)
	assert.Equal(t, Position{Line: 2, Col: 1}, got[2].Start)
	assert.Equal(t, uint32(3), got[2].Span.End)
}

func TestFormatTokensYAMLAndMsgpack(t *testing.T) {
	toks, fs := lexSample(t, sample)
	want := NewTokenOutputs(toks, fs)

	var ybuf bytes.Buffer
	require.NoError(t, FormatTokensYAML(&ybuf, toks, fs))
	var fromYAML []TokenOutput
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &fromYAML))
	assert.Equal(t, want, fromYAML)

	var mbuf bytes.Buffer
	require.NoError(t, FormatTokensMsgpack(&mbuf, toks, fs))
	var fromMsgpack []TokenOutput
	require.NoError(t, msgpack.Unmarshal(mbuf.Bytes(), &fromMsgpack))
	assert.Equal(t, want, fromMsgpack)
}

func TestFormatTokensYAMLKeepsNewlineTexts(t *testing.T) {
	for _, input := range []string{"x\ny", "x\n\ny", "x\r\ny", "\n", "a \t\n b"} {
		toks, fs := lexSample(t, input)
		want := NewTokenOutputs(toks, fs)

		var buf bytes.Buffer
		require.NoError(t, FormatTokensYAML(&buf, toks, fs))
		assert.NotContains(t, buf.String(), "|", "input %q", input)

		var got []TokenOutput
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, want, got, "input %q", input)

		var sb strings.Builder
		for _, tok := range got {
			sb.WriteString(tok.Text)
		}
		assert.Equal(t, input, sb.String())
	}
}

func TestFormatFilesYAML(t *testing.T) {
	toks, fs := lexSample(t, "VAR\n\nEND_VAR")
	files := []FileOutput{{Path: "a.st", Tokens: NewTokenOutputs(toks, fs)}}

	var buf bytes.Buffer
	require.NoError(t, FormatFiles(&buf, FormatYAML, files))
	assert.Contains(t, buf.String(), `text: "\n\n"`)

	var got []FileOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, files, got)
}

func TestFormatFiles(t *testing.T) {
	color.NoColor = true
	toks, fs := lexSample(t, "VAR")
	files := []FileOutput{
		{Path: "a.st", Tokens: NewTokenOutputs(toks, fs)},
		{Path: "b.st", Error: "permission denied"},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatFiles(&buf, FormatPretty, files))
	assert.Equal(t, "== a.st ==\n  1: Keyword            \"VAR\" at 1:1-1:4\n== b.st ==\nerror: permission denied\n", buf.String())

	buf.Reset()
	require.NoError(t, FormatFiles(&buf, FormatJSON, files))
	var got []FileOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, files, got)
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func renderer(profile termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return r
}

func TestHighlightPlainProfile(t *testing.T) {
	toks, _ := lexSample(t, sample)
	th, err := NewTheme(renderer(termenv.Ascii), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Highlight(&buf, toks, th))
	assert.Equal(t, sample, buf.String())
}

func TestHighlightColored(t *testing.T) {
	src := "IF a\tTHEN (* one\ntwo *) END_IF"
	toks, _ := lexSample(t, src)
	th, err := NewTheme(renderer(termenv.ANSI256), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Highlight(&buf, toks, th))
	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Equal(t, src, ansiRE.ReplaceAllString(out, ""))
	// the comment is styled per line, so the first line closes its escape
	first, _, _ := strings.Cut(out, "\n")
	assert.True(t, strings.HasSuffix(first, "\x1b[0m"), "%q", first)
}

func TestHighlightKeepsCRLF(t *testing.T) {
	src := "IF a THEN // c\r\n(* x\r\ny *)\r\nEND_IF\r\n"
	toks, _ := lexSample(t, src)
	th, err := NewTheme(renderer(termenv.ANSI256), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Highlight(&buf, toks, th))
	out := buf.String()
	assert.Equal(t, src, ansiRE.ReplaceAllString(out, ""))
	first, _, _ := strings.Cut(out, "\n")
	assert.True(t, strings.HasSuffix(first, "\x1b[0m\r"), "%q", first)
}

func TestNewThemeOverrides(t *testing.T) {
	th, err := NewTheme(renderer(termenv.ANSI256), map[string]string{
		"Name":    "#ff8800",
		"Keyword": "",
	})
	require.NoError(t, err)

	_, ok := th.Style(token.Name)
	assert.True(t, ok)
	_, ok = th.Style(token.Keyword)
	assert.False(t, ok)
	_, ok = th.Style(token.KeywordType)
	assert.True(t, ok)

	_, err = NewTheme(nil, map[string]string{"Number": "1"})
	require.Error(t, err)
}
