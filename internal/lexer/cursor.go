package lexer

import (
	"bytes"
	"unicode/utf8"

	"stlex/internal/source"
)

// Cursor is a byte position inside a file.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	return Cursor{File: f, Off: 0, Limit: f.Len()}
}

// EOF reports whether the cursor reached the limit.
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 returns the current and the next byte; ok is false if fewer than two remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// PeekRune decodes the rune at the cursor. Invalid UTF-8 yields
// (utf8.RuneError, 1) so every byte is still consumed exactly once.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	b := c.File.Content[c.Off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(c.File.Content[c.Off:c.Limit])
}

// Bump advances one byte and returns it.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// BumpRune advances past the rune at the cursor.
func (c *Cursor) BumpRune() {
	_, sz := c.PeekRune()
	c.Off += uint32(sz) // sz <= utf8.UTFMax
}

// Eat consumes the next byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// At reports whether the remaining input starts with two bytes a, b.
func (c *Cursor) At(a, b byte) bool {
	b0, b1, ok := c.Peek2()
	return ok && b0 == a && b1 == b
}

// SkipTo advances to the next occurrence of needle, or to the limit.
// It reports whether needle was found.
func (c *Cursor) SkipTo(needle []byte) bool {
	rest := c.File.Content[c.Off:c.Limit]
	i := bytes.Index(rest, needle)
	if i < 0 {
		c.Off = c.Limit
		return false
	}
	c.Off += uint32(i)
	return true
}

// Mark is a saved cursor position used to build spans.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom returns the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}
