package token

import "fmt"

// Kind is the highlighting category of a token.
type Kind uint8

const (
	// EOF marks the end of input. It is never part of the coverage.
	EOF Kind = iota

	// CommentSingle is a "//" comment up to the end of its line.
	CommentSingle
	// CommentMultiline is a "(* ... *)" comment, delimiters included.
	CommentMultiline
	// Keyword is a control or declaration keyword (IF, VAR, END_PROGRAM, TRUE...).
	Keyword
	// KeywordType is an elementary or derived type name (INT, REAL, REF_TO...).
	KeywordType
	// NameFunction is a built-in function name (ABS, SQRT, SHL...).
	NameFunction
	// Name is any other word.
	Name
	// String is a double-quoted literal, quotes included.
	String
	// StringChar is a single-quoted literal, quotes included.
	StringChar
	// Whitespace is a run of ASCII whitespace.
	Whitespace
	// Other is a single character no rule recognizes.
	Other

	kindCount
)

var kindNames = [...]string{
	EOF:              "EOF",
	CommentSingle:    "Comment.Single",
	CommentMultiline: "Comment.Multiline",
	Keyword:          "Keyword",
	KeywordType:      "Keyword.Type",
	NameFunction:     "Name.Function",
	Name:             "Name",
	String:           "String",
	StringChar:       "String.Char",
	Whitespace:       "Whitespace",
	Other:            "Other",
}

// String returns the dotted category name, e.g. "Keyword.Type".
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsEOF reports whether k is the end-of-input sentinel.
func (k Kind) IsEOF() bool { return k == EOF }

// IsComment reports whether k is one of the comment categories.
func (k Kind) IsComment() bool { return k == CommentSingle || k == CommentMultiline }

// IsString reports whether k is one of the literal categories.
func (k Kind) IsString() bool { return k == String || k == StringChar }

// Kinds returns every category except EOF, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := CommentSingle; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := EOF; k < kindCount; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return EOF, fmt.Errorf("unknown token kind %q", s)
}
