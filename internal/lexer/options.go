package lexer

// Options tune the token stream. The zero value yields the raw stream.
type Options struct {
	// Coalesce merges adjacent tokens of the same kind into one token.
	Coalesce bool
	// MaxTokens stops the stream after that many tokens; 0 means no limit.
	// Counted after coalescing.
	MaxTokens int
}
