package tokfmt

import (
	"fmt"
	"strings"
)

// Format selects a dump encoding.
type Format uint8

const (
	FormatPretty Format = iota
	FormatJSON
	FormatYAML
	FormatMsgpack
)

var formatNames = [...]string{"pretty", "json", "yaml", "msgpack"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "pretty":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return FormatPretty, fmt.Errorf("unknown format %q (expected: %s)", s, strings.Join(formatNames[:], "|"))
	}
}

// Binary reports whether the format must not be written to a terminal.
func (f Format) Binary() bool { return f == FormatMsgpack }
