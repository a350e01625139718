package fuzztests

import (
	"bytes"
	"testing"

	"stlex/internal/lexer"
	"stlex/internal/source"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLexerCoverage(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		input = append([]byte(nil), input...)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.st", input))

		for _, coalesce := range []bool{false, true} {
			var buf bytes.Buffer
			var next uint32
			prevKind := -1
			for tok := range lexer.Tokens(file, lexer.Options{Coalesce: coalesce}) {
				if tok.Span.Start != next {
					t.Fatalf("gap or overlap at %d: token starts at %d", next, tok.Span.Start)
				}
				if tok.Span.Empty() {
					t.Fatalf("empty token %v at %d", tok.Kind, tok.Span.Start)
				}
				if coalesce && int(tok.Kind) == prevKind {
					t.Fatalf("adjacent %v tokens survived coalescing", tok.Kind)
				}
				prevKind = int(tok.Kind)
				next = tok.Span.End
				buf.WriteString(tok.Text)
			}
			if !bytes.Equal(buf.Bytes(), input) {
				t.Fatalf("tokens do not reproduce input (coalesce=%v)", coalesce)
			}
		}
	})
}
