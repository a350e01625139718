// Package lang holds the registration metadata of the Structured Text lexer
// and the heuristics a host uses to decide whether a file is Structured Text.
//
// "*.st" is shared with Smalltalk, so a filename match alone is only a
// possible match; an END_PROGRAM keyword in the source makes it certain.
package lang
