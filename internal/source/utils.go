package source

import (
	"bytes"
	"path/filepath"
	"sort"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeCRLF rewrites every "\r\n" pair to "\n". A lone '\r' is kept.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !bytes.Contains(content, []byte("\r\n")) {
		return content, false
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n")), true
}

func removeBOM(content []byte) ([]byte, bool) {
	if rest, ok := bytes.CutPrefix(content, utf8BOM); ok {
		return rest, true
	}
	return content, false
}

// buildLineIndex records the offset of every '\n' in content.
func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// number of newlines strictly before off == 0-based line
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	if line == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	start := lineIdx[line-1] + 1
	return LineCol{Line: uint32(line + 1), Col: off - start + 1}
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
