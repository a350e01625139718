package driver

import (
	"context"
	"fmt"
	"io/fs"
	"runtime"
	"sort"
	"strconv"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"stlex/internal/lang"
	"stlex/internal/source"
	"stlex/internal/token"
	"stlex/internal/trace"
)

// FileResult is the outcome for one file of TokenizeDir.
// Err is set when the file could not be loaded; Tokens is nil then.
type FileResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token
	Cached bool
	Err    error
}

// ListFiles returns the sorted paths under dir whose names match the
// Structured Text filename patterns.
func ListFiles(fsys afero.Fs, dir string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && lang.StructuredText.MatchFilename(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// TokenizeDir tokenizes every Structured Text file under dir in parallel.
// Load failures are recorded per file and do not stop the batch; a canceled
// context does.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []FileResult, error) {
	fsys := opts.fs()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "tokenize-dir", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	files, err := ListFiles(fsys, dir)
	if err != nil {
		span.End("list failed")
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		span.End("no files")
		return fileSet, nil, nil
	}
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine owns results[i]
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].Path = path

			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
			fileID, err := fileSet.LoadFS(fsys, path, opts.Load)
			if err != nil {
				results[i].Err = err
				trace.Point(tracer, trace.ScopeFile, "load", err.Error(), span.ID())
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
				return nil
			}
			results[i].FileID = fileID

			tokens, cached, err := tokenizeFile(gctx, fileSet.Get(fileID), opts)
			if err != nil {
				return err
			}
			results[i].Tokens = tokens
			results[i].Cached = cached
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End(err.Error())
		return fileSet, results, err
	}
	span.WithExtra("files", strconv.Itoa(len(files))).End(dir)
	return fileSet, results, nil
}
