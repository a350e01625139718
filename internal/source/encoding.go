package source

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names the code page a file is stored in.
// PLC IDEs frequently export Windows-1252 text, so the loader can transcode
// it to UTF-8 before scanning.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
	EncodingLatin1      Encoding = "latin1"
)

// ParseEncoding accepts the canonical names plus a few common spellings.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1252", "cp1252", "win1252":
		return EncodingWindows1252, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return EncodingLatin1, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q (expected utf-8|windows-1252|latin1)", s)
	}
}

func (e Encoding) decoder() *encoding.Decoder {
	switch e {
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder()
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder()
	default:
		return nil
	}
}

// transcode converts content to UTF-8. UTF-8 input is returned untouched.
func transcode(content []byte, enc Encoding) ([]byte, bool, error) {
	enc, err := ParseEncoding(string(enc))
	if err != nil {
		return nil, false, err
	}
	dec := enc.decoder()
	if dec == nil {
		return content, false, nil
	}
	out, err := dec.Bytes(content)
	if err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", enc, err)
	}
	return out, true, nil
}
