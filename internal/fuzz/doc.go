// Package fuzztests houses Go fuzz harnesses for the Structured Text lexer.
// They load arbitrary bytes into a FileSet, drain the token stream and check
// that the tokens still partition the input.
package fuzztests
