package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stlex/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.st", []byte(content)))
}

func TestCursorSequentialReading(t *testing.T) {
	c := NewCursor(createFile("a\nb"))

	for _, want := range []byte("a\nb") {
		require.False(t, c.EOF())
		assert.Equal(t, want, c.Peek())
		assert.Equal(t, want, c.Bump())
	}
	assert.True(t, c.EOF())
	assert.Equal(t, byte(0), c.Peek())
	assert.Equal(t, byte(0), c.Bump())
}

func TestCursorPeek2(t *testing.T) {
	c := NewCursor(createFile("(*)"))

	b0, b1, ok := c.Peek2()
	require.True(t, ok)
	assert.Equal(t, byte('('), b0)
	assert.Equal(t, byte('*'), b1)
	assert.True(t, c.At('(', '*'))

	c.Bump()
	assert.True(t, c.At('*', ')'))
	c.Bump()

	_, _, ok = c.Peek2()
	assert.False(t, ok)
	assert.False(t, c.At(')', 0))
}

func TestCursorRunes(t *testing.T) {
	c := NewCursor(createFile("αb\xff"))

	r, sz := c.PeekRune()
	assert.Equal(t, 'α', r)
	assert.Equal(t, 2, sz)
	c.BumpRune()
	assert.Equal(t, uint32(2), c.Off)

	r, sz = c.PeekRune()
	assert.Equal(t, 'b', r)
	assert.Equal(t, 1, sz)
	c.BumpRune()

	_, sz = c.PeekRune()
	assert.Equal(t, 1, sz, "invalid byte still advances by one")
	c.BumpRune()
	assert.True(t, c.EOF())

	_, sz = c.PeekRune()
	assert.Equal(t, 0, sz)
	c.BumpRune()
	assert.Equal(t, uint32(4), c.Off)
}

func TestCursorSkipTo(t *testing.T) {
	c := NewCursor(createFile("abc*)def"))
	require.True(t, c.SkipTo([]byte("*)")))
	assert.Equal(t, uint32(3), c.Off)

	c.Off += 2
	assert.False(t, c.SkipTo([]byte("*)")))
	assert.True(t, c.EOF())
}

func TestCursorEatMark(t *testing.T) {
	c := NewCursor(createFile("ab"))
	m := c.Mark()

	assert.False(t, c.Eat('x'))
	assert.True(t, c.Eat('a'))
	assert.True(t, c.Eat('b'))
	assert.False(t, c.Eat('b'))

	assert.Equal(t, source.Span{Start: 0, End: 2}, c.SpanFrom(m))
	assert.True(t, c.EOF())
}
