package lexer

import (
	"iter"

	"stlex/internal/source"
	"stlex/internal/token"
)

// Tokens returns a lazy token sequence for file. Each range over the
// sequence starts a fresh scan from offset 0. EOF is not yielded.
func Tokens(file *source.File, opts Options) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		lx := New(file)
		emitted := 0
		limitHit := func() bool { return opts.MaxTokens > 0 && emitted >= opts.MaxTokens }

		if !opts.Coalesce {
			for !limitHit() {
				tok := lx.Next()
				if tok.IsEOF() {
					return
				}
				emitted++
				if !yield(tok) {
					return
				}
			}
			return
		}

		var pending token.Token
		havePending := false
		for !limitHit() {
			tok := lx.Next()
			if tok.IsEOF() {
				break
			}
			if havePending && pending.Kind == tok.Kind {
				pending.Span = pending.Span.Cover(tok.Span)
				continue
			}
			if havePending {
				emitted++
				if !yield(finish(file, pending)) {
					return
				}
			}
			pending, havePending = tok, true
		}
		if havePending && !limitHit() {
			yield(finish(file, pending))
		}
	}
}

// finish re-slices the text of a merged token.
func finish(file *source.File, tok token.Token) token.Token {
	tok.Text = file.Slice(tok.Span)
	return tok
}

// Collect drains Tokens into a slice.
func Collect(file *source.File, opts Options) []token.Token {
	var out []token.Token
	for tok := range Tokens(file, opts) {
		out = append(out, tok)
	}
	return out
}
