package lexer

import (
	"stlex/internal/token"
)

var commentClose = []byte("*)")

// scanCommentBody handles StateCommentMulti. The first "*)" closes the
// comment; "(*" inside it has no meaning.
func (lx *Lexer) scanCommentBody() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.At('*', ')') {
		lx.cursor.Off += 2
		lx.stack.pop()
		return lx.emit(token.CommentMultiline, start)
	}
	lx.cursor.SkipTo(commentClose)
	return lx.emit(token.CommentMultiline, start)
}

// scanQuotedBody handles StateString and StateChar. There are no escapes and
// newlines are ordinary content; an unterminated literal runs to EOF.
func (lx *Lexer) scanQuotedBody(quote byte, kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Eat(quote) {
		lx.stack.pop()
		return lx.emit(kind, start)
	}
	lx.cursor.SkipTo([]byte{quote})
	return lx.emit(kind, start)
}
