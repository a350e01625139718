// Package tokfmt renders token streams: line-oriented dumps (pretty, JSON,
// YAML, MessagePack) for inspection and ANSI-highlighted source for terminals.
package tokfmt
