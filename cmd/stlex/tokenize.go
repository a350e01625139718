package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"stlex/internal/config"
	"stlex/internal/driver"
	"stlex/internal/lexer"
	"stlex/internal/observ"
	"stlex/internal/source"
	"stlex/internal/tokfmt"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.st|directory|->",
	Short: "Tokenize Structured Text and print the token stream",
	Long: `Tokenize a file, every *.st file below a directory, or stdin ("-").
Flags override [tokenize] settings from stlex.toml.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	addTokenizeFlags(tokenizeCmd.Flags())
}

func addTokenizeFlags(flags *pflag.FlagSet) {
	flags.String("format", "pretty", "output format (pretty|json|yaml|msgpack)")
	flags.Bool("coalesce", false, "merge adjacent tokens of the same kind")
	flags.String("encoding", "utf-8", "source encoding (utf-8|windows-1252|latin1)")
	flags.Bool("keep-crlf", false, "do not normalize CRLF line endings")
	flags.Int("jobs", 0, "max parallel files for directories (0=auto)")
	flags.Bool("cache", false, "reuse token streams from the disk cache")
	flags.Bool("clear-cache", false, "drop the disk cache before tokenizing")
	flags.Int("limit", 0, "stop after this many tokens per file (0=no limit)")
	flags.String("ui", "auto", "directory progress UI (auto|on|off)")
}

type tokenizeSettings struct {
	format     tokfmt.Format
	lexer      lexer.Options
	load       source.LoadOptions
	jobs       int
	cache      bool
	clearCache bool
	ui         uiMode
}

// resolveTokenizeSettings applies changed flags on top of cfg.
func resolveTokenizeSettings(cmd *cobra.Command, cfg config.TokenizeConfig) (tokenizeSettings, error) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("coalesce") {
		cfg.Coalesce, _ = flags.GetBool("coalesce")
	}
	if flags.Changed("encoding") {
		cfg.Encoding, _ = flags.GetString("encoding")
	}
	if flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("cache") {
		cfg.Cache, _ = flags.GetBool("cache")
	}
	if flags.Changed("limit") {
		cfg.Limit, _ = flags.GetInt("limit")
	}

	var s tokenizeSettings
	var err error
	if s.format, err = tokfmt.ParseFormat(cfg.Format); err != nil {
		return s, err
	}
	if s.load.Encoding, err = source.ParseEncoding(cfg.Encoding); err != nil {
		return s, err
	}
	if cfg.Jobs < 0 || cfg.Limit < 0 {
		return s, fmt.Errorf("--jobs and --limit must be >= 0")
	}
	s.load.KeepCRLF, _ = flags.GetBool("keep-crlf")
	s.lexer = lexer.Options{Coalesce: cfg.Coalesce, MaxTokens: cfg.Limit}
	s.jobs = cfg.Jobs
	s.cache = cfg.Cache
	s.clearCache, _ = flags.GetBool("clear-cache")

	uiValue, _ := flags.GetString("ui")
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}
	return s, nil
}

func runTokenize(cmd *cobra.Command, args []string) (err error) {
	finish, err := beginCommand(cmd)
	if err != nil {
		return err
	}
	defer func() { finish(err) }()

	settings, err := resolveTokenizeSettings(cmd, cliConfig.Tokenize)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if settings.format.Binary() && writerIsTerminal(out) {
		return errors.New("refusing to write msgpack to a terminal; redirect stdout")
	}

	path := args[0]
	if path == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		res := driver.TokenizeSource("<stdin>", content, settings.lexer)
		return tokfmt.FormatTokens(out, settings.format, res.Tokens, res.FileSet)
	}

	opts := driver.Options{
		Lexer: settings.lexer,
		Load:  settings.load,
		Jobs:  settings.jobs,
	}
	if settings.cache || settings.clearCache {
		cache, err := driver.OpenDiskCache("stlex")
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		if settings.clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
		}
		if settings.cache {
			opts.Cache = cache
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	timer := observ.NewTimer()
	defer printTimings(cmd, timer)

	if !info.IsDir() {
		phase := timer.Begin("tokenize")
		res, err := driver.Tokenize(cmd.Context(), path, opts)
		if err != nil {
			return err
		}
		timer.End(phase, fmt.Sprintf("%d tokens", len(res.Tokens)))
		phase = timer.Begin("render")
		defer timer.End(phase, settings.format.String())
		return tokfmt.FormatTokens(out, settings.format, res.Tokens, res.FileSet)
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	var (
		fileSet *source.FileSet
		results []driver.FileResult
	)
	phase := timer.Begin("tokenize")
	if !quiet && shouldUseTUI(settings.ui) {
		fileSet, results, err = runTokenizeDirWithUI(cmd.Context(), path, opts)
	} else {
		fileSet, results, err = driver.TokenizeDir(cmd.Context(), path, opts)
	}
	if err != nil {
		return err
	}
	timer.End(phase, fmt.Sprintf("%d files", len(results)))

	phase = timer.Begin("render")
	if err := tokfmt.FormatFiles(out, settings.format, fileOutputs(results, fileSet)); err != nil {
		return err
	}
	timer.End(phase, settings.format.String())
	if failed := countFailed(results); failed > 0 {
		return fmt.Errorf("%d of %d files could not be loaded", failed, len(results))
	}
	return nil
}

func fileOutputs(results []driver.FileResult, fileSet *source.FileSet) []tokfmt.FileOutput {
	out := make([]tokfmt.FileOutput, 0, len(results))
	for _, r := range results {
		fo := tokfmt.FileOutput{Path: r.Path}
		if r.Err != nil {
			fo.Error = r.Err.Error()
		} else {
			fo.Tokens = tokfmt.NewTokenOutputs(r.Tokens, fileSet)
		}
		out = append(out, fo)
	}
	return out
}

func countFailed(results []driver.FileResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func printTimings(cmd *cobra.Command, timer *observ.Timer) {
	if show, _ := cmd.Flags().GetBool("timings"); !show {
		return
	}
	if err := timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "timings: %v\n", err)
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
