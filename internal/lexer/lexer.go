package lexer

import (
	"stlex/internal/source"
	"stlex/internal/token"
)

// Lexer turns a Structured Text file into highlighting tokens.
// Every byte of the input ends up in exactly one token; Next returns EOF
// forever once the input is exhausted, regardless of the active state.
type Lexer struct {
	file   *source.File
	cursor Cursor
	stack  stateStack
}

// New creates a lexer positioned at the start of file in the root state.
func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		stack:  newStateStack(),
	}
}

// Next returns the next token.
func (lx *Lexer) Next() token.Token {
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.SpanFrom(lx.cursor.Mark())}
	}

	switch lx.stack.top() {
	case StateCommentMulti:
		return lx.scanCommentBody()
	case StateString:
		return lx.scanQuotedBody('"', token.String)
	case StateChar:
		return lx.scanQuotedBody('\'', token.StringChar)
	default:
		return lx.scanRoot()
	}
}

// State returns the active scanner state.
func (lx *Lexer) State() State { return lx.stack.top() }

// Depth returns the number of states above the root.
func (lx *Lexer) Depth() int { return len(lx.stack) - 1 }

// Offset returns the current byte offset.
func (lx *Lexer) Offset() uint32 { return lx.cursor.Off }

func (lx *Lexer) emit(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: kind, Span: sp, Text: lx.file.Slice(sp)}
}
