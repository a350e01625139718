package lexer

// isWordByte matches [A-Za-z0-9_]. Non-ASCII letters are not word
// characters and lex as Other one rune at a time.
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// isSpaceByte is ASCII whitespace only; U+00A0 and friends fall through to Other.
func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
