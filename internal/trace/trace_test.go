package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, name := range levelNames {
		l, err := ParseLevel(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, name, l.String())
	}
	_, err := ParseLevel("verbose")
	require.Error(t, err)
}

func TestShouldEmit(t *testing.T) {
	assert.False(t, LevelOff.ShouldEmit(ScopeDriver))
	assert.True(t, LevelPhase.ShouldEmit(ScopeDriver))
	assert.False(t, LevelPhase.ShouldEmit(ScopeFile))
	assert.True(t, LevelDetail.ShouldEmit(ScopeFile))
	assert.False(t, LevelDetail.ShouldEmit(ScopeCache))
	assert.True(t, LevelDebug.ShouldEmit(ScopeCache))
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	root := Begin(tr, ScopeDriver, "tokenize", 0)
	file := Begin(tr, ScopeFile, "lex", root.ID())
	file.WithExtra("tokens", "12").End("main.st")
	Point(tr, ScopeCache, "cache:get", "miss", root.ID()) // filtered at detail
	root.End("")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "→ tokenize")
	assert.Contains(t, lines[1], "  → lex")
	assert.Contains(t, lines[2], "← lex (main.st)")
	assert.Contains(t, lines[2], "{tokens=12}")
	assert.Contains(t, lines[3], "← tokenize")
	assert.NotContains(t, out, "cache:get")
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeCache, "cache:get", "hit", 7)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "point", got["kind"])
	assert.Equal(t, "cache", got["scope"])
	assert.Equal(t, "cache:get", got["name"])
	assert.Equal(t, "hit", got["detail"])
	assert.EqualValues(t, 7, got["parent_id"])
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(tr, ScopeFile, name, "", 0)
	}
	snap := tr.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []string{"c", "d", "e"}, []string{snap[0].Name, snap[1].Name, snap[2].Name})
	assert.Less(t, snap[0].Seq, snap[2].Seq)

	var buf bytes.Buffer
	require.NoError(t, tr.Dump(&buf, FormatText))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}

func TestNewLevels(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	assert.False(t, tr.Enabled())

	tr, err = New(Config{Level: LevelError, Mode: ModeStream})
	require.NoError(t, err)
	_, ok := tr.(*RingTracer)
	assert.True(t, ok, "error level records into a ring")

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf})
	require.NoError(t, err)
	Point(tr, ScopeFile, "load", "", 0)
	ring, ok := RingOf(tr)
	require.True(t, ok)
	assert.Len(t, ring.Snapshot(), 1)
	assert.Contains(t, buf.String(), "load")
	require.NoError(t, tr.Close())
}

func TestParseModeAndFormat(t *testing.T) {
	m, err := ParseMode("BOTH")
	require.NoError(t, err)
	assert.Equal(t, ModeBoth, m)
	_, err = ParseMode("disk")
	require.Error(t, err)

	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatNDJSON, f)
	_, err = ParseFormat("chrome")
	require.Error(t, err)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Nop, FromContext(ctx))
	assert.Zero(t, CurrentSpan(ctx))

	tr := NewRingTracer(8, LevelDebug)
	ctx = WithTracer(ctx, tr)
	span := Begin(FromContext(ctx), ScopeDriver, "cmd", 0)
	ctx = WithSpan(ctx, span)
	assert.Equal(t, span.ID(), CurrentSpan(ctx))
}

func TestDisabledSpanIsSafe(t *testing.T) {
	span := Begin(Nop, ScopeDriver, "x", 0)
	assert.Zero(t, span.ID())
	assert.Equal(t, time.Duration(0), span.WithExtra("k", "v").End(""))

	var nilSpan *Span
	assert.Zero(t, nilSpan.ID())
	assert.Zero(t, nilSpan.End(""))
}
