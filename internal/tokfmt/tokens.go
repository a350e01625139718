package tokfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"stlex/internal/source"
	"stlex/internal/token"
)

const kindColumn = 18

// Position is a 1-based line/column pair, columns in bytes.
type Position struct {
	Line uint32 `json:"line" yaml:"line" msgpack:"line"`
	Col  uint32 `json:"col" yaml:"col" msgpack:"col"`
}

// TokenOutput is the serialized form of one token.
type TokenOutput struct {
	Kind  string      `json:"kind" yaml:"kind" msgpack:"kind"`
	Text  string      `json:"text" yaml:"text" msgpack:"text"`
	Span  source.Span `json:"span" yaml:"span" msgpack:"span"`
	Start Position    `json:"start" yaml:"start" msgpack:"start"`
	End   Position    `json:"end" yaml:"end" msgpack:"end"`
}

// tokenOutputYAML mirrors TokenOutput with text as an explicit node.
type tokenOutputYAML struct {
	Kind  string      `yaml:"kind"`
	Text  *yaml.Node  `yaml:"text"`
	Span  source.Span `yaml:"span"`
	Start Position    `yaml:"start"`
	End   Position    `yaml:"end"`
}

// MarshalYAML always double-quotes the text. Block scalars chosen by the
// encoder for newline-only texts such as "\n" decode back as "".
func (t TokenOutput) MarshalYAML() (any, error) {
	return tokenOutputYAML{
		Kind: t.Kind,
		Text: &yaml.Node{
			Kind:  yaml.ScalarNode,
			Style: yaml.DoubleQuotedStyle,
			Tag:   "!!str",
			Value: t.Text,
		},
		Span:  t.Span,
		Start: t.Start,
		End:   t.End,
	}, nil
}

// FileOutput groups the tokens of one file for multi-file dumps.
type FileOutput struct {
	Path   string        `json:"path" yaml:"path" msgpack:"path"`
	Tokens []TokenOutput `json:"tokens" yaml:"tokens" msgpack:"tokens"`
	Error  string        `json:"error,omitempty" yaml:"error,omitempty" msgpack:"error,omitempty"`
}

// NewTokenOutputs resolves token spans against fs.
func NewTokenOutputs(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		start, end := fs.Resolve(tok.Span)
		out = append(out, TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Span:  tok.Span,
			Start: Position(start),
			End:   Position(end),
		})
	}
	return out
}

var (
	commentColor  = color.New(color.FgHiBlack)
	stringColor   = color.New(color.FgGreen)
	keywordColor  = color.New(color.FgMagenta, color.Bold)
	typeColor     = color.New(color.FgCyan)
	functionColor = color.New(color.FgBlue)
)

// kindColor picks the pretty-dump color of a kind column; nil is plain.
func kindColor(k token.Kind) *color.Color {
	switch {
	case k.IsComment():
		return commentColor
	case k.IsString():
		return stringColor
	case k == token.Keyword:
		return keywordColor
	case k == token.KeywordType:
		return typeColor
	case k == token.NameFunction:
		return functionColor
	}
	return nil
}

// FormatTokensPretty prints one token per line:
//
//	  1: Keyword            "PROGRAM" at 1:1-1:8
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return writePretty(w, NewTokenOutputs(tokens, fs))
}

func writePretty(w io.Writer, tokens []TokenOutput) error {
	for i, tok := range tokens {
		kind := runewidth.FillRight(tok.Kind, kindColumn)
		if k, err := token.ParseKind(tok.Kind); err == nil {
			if c := kindColor(k); c != nil {
				kind = c.Sprint(kind)
			}
		}
		if _, err := fmt.Fprintf(w, "%3d: %s %q at %d:%d-%d:%d\n",
			i+1, kind, tok.Text,
			tok.Start.Line, tok.Start.Col,
			tok.End.Line, tok.End.Col); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewTokenOutputs(tokens, fs))
}

// FormatTokensYAML writes the tokens as a YAML sequence.
func FormatTokensYAML(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return encodeYAML(w, NewTokenOutputs(tokens, fs))
}

// FormatTokensMsgpack writes the tokens as a MessagePack array.
func FormatTokensMsgpack(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	return msgpack.NewEncoder(w).Encode(NewTokenOutputs(tokens, fs))
}

// FormatTokens dispatches on format.
func FormatTokens(w io.Writer, format Format, tokens []token.Token, fs *source.FileSet) error {
	switch format {
	case FormatPretty:
		return FormatTokensPretty(w, tokens, fs)
	case FormatJSON:
		return FormatTokensJSON(w, tokens, fs)
	case FormatYAML:
		return FormatTokensYAML(w, tokens, fs)
	case FormatMsgpack:
		return FormatTokensMsgpack(w, tokens, fs)
	default:
		return fmt.Errorf("unknown format %v", format)
	}
}

// FormatFiles writes several files. Pretty output separates files with a
// "== path ==" header; structured formats emit a list of FileOutput.
func FormatFiles(w io.Writer, format Format, files []FileOutput) error {
	switch format {
	case FormatPretty:
		for _, f := range files {
			if _, err := fmt.Fprintf(w, "== %s ==\n", f.Path); err != nil {
				return err
			}
			if f.Error != "" {
				if _, err := fmt.Fprintf(w, "error: %s\n", f.Error); err != nil {
					return err
				}
				continue
			}
			if err := writePretty(w, f.Tokens); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(files)
	case FormatYAML:
		return encodeYAML(w, files)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(files)
	default:
		return fmt.Errorf("unknown format %v", format)
	}
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
