package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"stlex/internal/lang"
	"stlex/internal/source"
)

var guessCmd = &cobra.Command{
	Use:   "guess [flags] <file>",
	Short: "Report whether a file looks like Structured Text",
	Args:  cobra.ExactArgs(1),
	RunE:  runGuess,
}

func init() {
	guessCmd.Flags().String("mimetype", "", "mimetype reported by the caller, if known")
	guessCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type guessPayload struct {
	File       string      `json:"file"`
	Language   string      `json:"language"`
	Confidence string      `json:"confidence"`
	Score      int         `json:"score"`
	Hints      []guessHint `json:"hints,omitempty"`
}

type guessHint struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
	Line   uint32 `json:"line,omitempty"`
	Source string `json:"source,omitempty"`
}

func runGuess(cmd *cobra.Command, args []string) (err error) {
	finish, err := beginCommand(cmd)
	if err != nil {
		return err
	}
	defer func() { finish(err) }()

	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	mimetype, _ := cmd.Flags().GetString("mimetype")
	enc, err := source.ParseEncoding(cliConfig.Tokenize.Encoding)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	id, err := fs.LoadFS(osFS(), args[0], source.LoadOptions{Encoding: enc})
	if err != nil {
		return err
	}
	file := fs.Get(id)
	res := lang.Detect(file, mimetype)

	payload := guessPayload{
		File:       file.Path,
		Language:   res.Language.Tag,
		Confidence: res.Confidence.String(),
		Score:      res.Score,
	}
	payload.Hints = guessHints(file, res.Hints)

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	renderGuessPretty(cmd.OutOrStdout(), payload)
	return nil
}

// guessHints resolves hint spans to a line number and the trimmed source line.
func guessHints(file *source.File, hints []lang.Hint) []guessHint {
	var out []guessHint
	for _, h := range hints {
		gh := guessHint{Score: h.Score, Reason: h.Reason}
		if !h.Span.Empty() {
			gh.Line = file.Position(h.Span.Start).Line
			gh.Source = strings.TrimSpace(file.GetLine(gh.Line))
		}
		out = append(out, gh)
	}
	return out
}

func renderGuessPretty(out io.Writer, p guessPayload) {
	fmt.Fprintf(out, "%s: %s %s (score %d)\n", p.File, p.Language, p.Confidence, p.Score)
	for _, h := range p.Hints {
		if h.Line > 0 {
			fmt.Fprintf(out, "  +%d %s (line %d)\n", h.Score, h.Reason, h.Line)
			if h.Source != "" {
				fmt.Fprintf(out, "      | %s\n", h.Source)
			}
			continue
		}
		fmt.Fprintf(out, "  +%d %s\n", h.Score, h.Reason)
	}
}
