package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"stlex/internal/lexer"
	"stlex/internal/source"
	"stlex/internal/token"
	"stlex/internal/trace"
)

// Options configure Tokenize and TokenizeDir. The zero value reads the OS
// filesystem, scans raw tokens and uses no cache.
type Options struct {
	Lexer    lexer.Options
	Load     source.LoadOptions
	Jobs     int        // parallel files in TokenizeDir; 0 = GOMAXPROCS
	Cache    *DiskCache // nil disables caching
	Progress ProgressSink
	FS       afero.Fs // nil = OS filesystem
}

func (o Options) fs() afero.Fs {
	if o.FS == nil {
		return afero.NewOsFs()
	}
	return o.FS
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Cached  bool
}

// Tokenize loads path and scans it.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.LoadFS(opts.fs(), path, opts.Load)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	tokens, cached, err := tokenizeFile(ctx, file, opts)
	if err != nil {
		return nil, err
	}
	return &TokenizeResult{FileSet: fs, File: file, Tokens: tokens, Cached: cached}, nil
}

// TokenizeSource scans in-memory content, e.g. stdin. The cache is not consulted.
func TokenizeSource(name string, content []byte, opts lexer.Options) *TokenizeResult {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, content))
	return &TokenizeResult{FileSet: fs, File: file, Tokens: lexer.Collect(file, opts)}
}

// tokenizeFile scans file, going through opts.Cache when set. Cache read
// failures fall back to a fresh scan; write failures are only traced.
func tokenizeFile(ctx context.Context, file *source.File, opts Options) ([]token.Token, bool, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "lex", trace.CurrentSpan(ctx))
	start := time.Now()

	emit(opts.Progress, Event{File: file.Path, Stage: StageLex, Status: StatusWorking})

	var key CacheKey
	if opts.Cache != nil {
		key = KeyFor(file, opts.Lexer)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			trace.Point(tracer, trace.ScopeCache, "cache:get", err.Error(), span.ID())
		case hit:
			tokens, convErr := payloadToTokens(file, &payload)
			if convErr == nil {
				trace.Point(tracer, trace.ScopeCache, "cache:get", "hit", span.ID())
				span.WithExtra("tokens", strconv.Itoa(len(tokens))).End(file.Path + " (cached)")
				emit(opts.Progress, Event{File: file.Path, Stage: StageLex, Status: StatusCached, Elapsed: time.Since(start)})
				return tokens, true, nil
			}
			trace.Point(tracer, trace.ScopeCache, "cache:get", convErr.Error(), span.ID())
		default:
			trace.Point(tracer, trace.ScopeCache, "cache:get", "miss", span.ID())
		}
	}

	if err := ctx.Err(); err != nil {
		span.End("canceled")
		emit(opts.Progress, Event{File: file.Path, Stage: StageLex, Status: StatusError, Err: err})
		return nil, false, err
	}
	tokens := lexer.Collect(file, opts.Lexer)

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, tokensToPayload(tokens, opts.Lexer)); err != nil {
			trace.Point(tracer, trace.ScopeCache, "cache:put", fmt.Sprintf("%s: %v", file.Path, err), span.ID())
		}
	}

	span.WithExtra("tokens", strconv.Itoa(len(tokens))).End(file.Path)
	emit(opts.Progress, Event{File: file.Path, Stage: StageLex, Status: StatusDone, Elapsed: time.Since(start)})
	return tokens, false, nil
}
