package lexer

import (
	"stlex/internal/token"
)

// scanRoot applies the root rules in priority order; the first rule that
// matches at the cursor wins.
func (lx *Lexer) scanRoot() token.Token {
	start := lx.cursor.Mark()

	// 1. "//" plus at least one character of the same line.
	if lx.cursor.At('/', '/') && lx.lineCommentHasBody() {
		lx.cursor.SkipTo([]byte{'\n'})
		return lx.emit(token.CommentSingle, start)
	}

	// 2. "(*" opens a multiline comment.
	if lx.cursor.At('(', '*') {
		lx.cursor.Off += 2
		lx.stack.push(StateCommentMulti)
		return lx.emit(token.CommentMultiline, start)
	}

	// 3. word run, classified by the keyword tables.
	if isWordByte(lx.cursor.Peek()) {
		lx.scanWord()
		tok := lx.emit(token.Name, start)
		tok.Kind = token.Classify(tok.Text)
		return tok
	}

	switch b := lx.cursor.Peek(); {
	// 4. string literal opens.
	case b == '"':
		lx.cursor.Bump()
		lx.stack.push(StateString)
		return lx.emit(token.String, start)

	// 5. char literal opens.
	case b == '\'':
		lx.cursor.Bump()
		lx.stack.push(StateChar)
		return lx.emit(token.StringChar, start)

	// 6. whitespace run.
	case isSpaceByte(b):
		for !lx.cursor.EOF() && isSpaceByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.emit(token.Whitespace, start)
	}

	// 7. anything else, one character at a time.
	lx.cursor.BumpRune()
	return lx.emit(token.Other, start)
}

// lineCommentHasBody reports whether the "//" at the cursor is followed by
// a character other than a newline. A bare "//" is two Other tokens.
func (lx *Lexer) lineCommentHasBody() bool {
	next := lx.cursor.Off + 2
	return next < lx.cursor.Limit && lx.file.Content[next] != '\n'
}

// scanWord consumes the maximal run of word characters.
func (lx *Lexer) scanWord() {
	for !lx.cursor.EOF() && isWordByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}
