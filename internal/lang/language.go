package lang

import (
	"path"
	"strings"
)

// Language describes how a host registers a lexer.
type Language struct {
	Tag         string
	Name        string
	Description string
	Aliases     []string
	Filenames   []string
	Mimetypes   []string
}

// StructuredText is the registration record of the IEC 61131-3 ST lexer.
var StructuredText = &Language{
	Tag:         "structuredtext",
	Name:        "Structured Text",
	Description: "IEC 61131-3 Structured Text programming language",
	Aliases:     []string{"iecst", "scl", "stl", "structured-text"},
	Filenames:   []string{"*.st"},
	Mimetypes:   []string{"text/x-structuretext"},
}

var registry = []*Language{StructuredText}

// Lookup finds a language by tag or alias, ignoring case.
func Lookup(name string) (*Language, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, l := range registry {
		if l.Tag == name {
			return l, true
		}
		for _, a := range l.Aliases {
			if a == name {
				return l, true
			}
		}
	}
	return nil, false
}

// MatchFilename reports whether the base name of filename matches one of
// the language's glob patterns.
func (l *Language) MatchFilename(filename string) bool {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	for _, pattern := range l.Filenames {
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// MatchMimetype reports whether mimetype, without parameters, is registered.
func (l *Language) MatchMimetype(mimetype string) bool {
	mt, _, _ := strings.Cut(mimetype, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	for _, m := range l.Mimetypes {
		if m == mt {
			return true
		}
	}
	return false
}
