package lang

import (
	"fmt"
	"strings"

	"stlex/internal/lexer"
	"stlex/internal/source"
	"stlex/internal/token"
)

// Confidence grades a detection result.
type Confidence uint8

const (
	ConfidenceNone Confidence = iota
	ConfidencePossible
	ConfidenceCertain
)

func (c Confidence) String() string {
	switch c {
	case ConfidencePossible:
		return "possible"
	case ConfidenceCertain:
		return "certain"
	default:
		return "none"
	}
}

// Hint is one piece of evidence collected for a file.
type Hint struct {
	Score  int
	Reason string
	Span   source.Span
}

const (
	scoreFilename   = 1
	scoreSourceHint = 2
	scoreMimetype   = 3

	// sourceHintWord must appear as a keyword token, not inside a comment or literal.
	sourceHintWord = "end_program"
)

// Result is the outcome of Detect.
type Result struct {
	Language   *Language
	Confidence Confidence
	Score      int
	Hints      []Hint
}

// Detect grades whether file is Structured Text. mimetype may be empty.
func Detect(file *source.File, mimetype string) Result {
	res := Result{Language: StructuredText}

	if mimetype != "" && StructuredText.MatchMimetype(mimetype) {
		res.add(Hint{Score: scoreMimetype, Reason: fmt.Sprintf("mimetype %s", mimetype)})
	}
	if StructuredText.MatchFilename(file.Path) {
		res.add(Hint{Score: scoreFilename, Reason: fmt.Sprintf("filename matches %s", strings.Join(StructuredText.Filenames, ", "))})
	}
	if sp, ok := findSourceHint(file); ok {
		res.add(Hint{Score: scoreSourceHint, Reason: "END_PROGRAM keyword", Span: sp})
	}

	switch {
	case res.Score >= scoreMimetype:
		res.Confidence = ConfidenceCertain
	case res.Score >= scoreFilename+scoreSourceHint:
		res.Confidence = ConfidenceCertain
	case res.Score > 0:
		res.Confidence = ConfidencePossible
	}
	return res
}

func (r *Result) add(h Hint) {
	r.Hints = append(r.Hints, h)
	r.Score += h.Score
}

func findSourceHint(file *source.File) (source.Span, bool) {
	for tok := range lexer.Tokens(file, lexer.Options{}) {
		if tok.Kind == token.Keyword && strings.EqualFold(tok.Text, sourceHintWord) {
			return tok.Span, true
		}
	}
	return source.Span{}, false
}
