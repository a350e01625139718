package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"stlex/internal/config"
	"stlex/internal/driver"
	"stlex/internal/lexer"
	"stlex/internal/source"
	"stlex/internal/tokfmt"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [flags] <file.st|->",
	Short: "Print Structured Text source with ANSI colors",
	Long: `Print a file with each token colored by its category.
Colors come from [highlight] in stlex.toml; --color=off prints the source unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlight,
}

func init() {
	addHighlightFlags(highlightCmd.Flags())
}

func addHighlightFlags(flags *pflag.FlagSet) {
	flags.String("encoding", "", "source encoding (default from stlex.toml)")
	flags.Bool("keep-crlf", true, "echo CRLF line endings as they are in the file")
}

// highlightLoadOptions resolves --encoding over the config. CRLF is kept
// unless --keep-crlf=false, so the output reproduces the file's bytes.
func highlightLoadOptions(cmd *cobra.Command, cfg config.TokenizeConfig) (source.LoadOptions, error) {
	encName := cfg.Encoding
	if cmd.Flags().Changed("encoding") {
		encName, _ = cmd.Flags().GetString("encoding")
	}
	enc, err := source.ParseEncoding(encName)
	if err != nil {
		return source.LoadOptions{}, err
	}
	keepCRLF, _ := cmd.Flags().GetBool("keep-crlf")
	return source.LoadOptions{Encoding: enc, KeepCRLF: keepCRLF}, nil
}

func runHighlight(cmd *cobra.Command, args []string) (err error) {
	finish, err := beginCommand(cmd)
	if err != nil {
		return err
	}
	defer func() { finish(err) }()

	load, err := highlightLoadOptions(cmd, cliConfig.Tokenize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	theme, err := tokfmt.NewTheme(newRenderer(cmd, out), cliConfig.HighlightColors())
	if err != nil {
		return fmt.Errorf("%s: %w", configLabel(), err)
	}

	var res *driver.TokenizeResult
	if args[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		res = driver.TokenizeSource("<stdin>", content, lexer.Options{Coalesce: true})
	} else {
		res, err = driver.Tokenize(cmd.Context(), args[0], driver.Options{
			Lexer: lexer.Options{Coalesce: true},
			Load:  load,
		})
		if err != nil {
			return err
		}
	}
	return tokfmt.Highlight(out, res.Tokens, theme)
}

func configLabel() string {
	if cliConfigPath == "" {
		return "built-in config"
	}
	return cliConfigPath
}
