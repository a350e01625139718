package token

import (
	"stlex/internal/source"
)

// Token is one classified span of source text.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsEOF reports whether the token is the end-of-input sentinel.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// Len returns the token length in bytes.
func (t Token) Len() uint32 { return t.Span.Len() }
