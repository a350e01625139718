// Package token defines the lexical categories of IEC 61131-3 Structured Text
// and the keyword tables used to classify words.
// Invariants:
//   - Token.Text is exactly the source bytes covered by Token.Span.
//   - Keyword matching is case-insensitive; tables hold lowercase words only.
//   - The three keyword tables are disjoint.
//   - Numbers are not a category: digit runs are words and classify as Name.
package token
