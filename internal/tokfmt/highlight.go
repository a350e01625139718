package tokfmt

import (
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stlex/internal/token"
)

// DefaultColors maps category names to lipgloss colors (ANSI index or hex).
var DefaultColors = map[string]string{
	"Comment.Single":    "8",
	"Comment.Multiline": "8",
	"Keyword":           "5",
	"Keyword.Type":      "6",
	"Name.Function":     "12",
	"String":            "2",
	"String.Char":       "10",
}

// Theme holds one style per token kind. Kinds without a style print as is.
type Theme struct {
	styles map[token.Kind]lipgloss.Style
}

// NewTheme builds a theme from DefaultColors overlaid with overrides.
// Keys are category names such as "Keyword.Type"; an empty color removes
// the style for that category.
func NewTheme(r *lipgloss.Renderer, overrides map[string]string) (*Theme, error) {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	colors := maps.Clone(DefaultColors)
	for name, c := range overrides {
		if _, err := token.ParseKind(name); err != nil {
			return nil, fmt.Errorf("highlight colors: %w", err)
		}
		colors[name] = c
	}

	th := &Theme{styles: make(map[token.Kind]lipgloss.Style, len(colors))}
	for name, c := range colors {
		if c == "" {
			continue
		}
		kind, err := token.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("highlight colors: %w", err)
		}
		style := r.NewStyle().
			Foreground(lipgloss.Color(c)).
			TabWidth(lipgloss.NoTabConversion)
		switch {
		case kind.IsComment():
			style = style.Italic(true)
		case kind == token.Keyword:
			style = style.Bold(true)
		}
		th.styles[kind] = style
	}
	return th, nil
}

// Style returns the style for kind, if the theme colors it.
func (th *Theme) Style(kind token.Kind) (lipgloss.Style, bool) {
	s, ok := th.styles[kind]
	return s, ok
}

// Highlight writes the token texts in order, styled by th. Styles are
// applied per line so multi-line comments and strings keep their layout.
func Highlight(w io.Writer, tokens []token.Token, th *Theme) error {
	var sb strings.Builder
	for _, tok := range tokens {
		style, ok := th.Style(tok.Kind)
		if !ok {
			sb.WriteString(tok.Text)
			continue
		}
		for i, line := range strings.Split(tok.Text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			// a CRLF line end stays outside the escape sequence
			line, cr := strings.CutSuffix(line, "\r")
			if line != "" {
				sb.WriteString(style.Render(line))
			}
			if cr {
				sb.WriteByte('\r')
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
