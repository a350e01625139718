package source

import (
	"crypto/sha256"
	"fmt"
	"sync"

	"fortio.org/safecast"
	"github.com/spf13/afero"
)

// LoadOptions controls how file bytes are turned into scannable content.
type LoadOptions struct {
	// Encoding of the bytes on disk; empty means UTF-8.
	Encoding Encoding
	// KeepCRLF disables "\r\n" -> "\n" normalization.
	KeepCRLF bool
}

// FileSet manages a collection of source files and resolves spans to positions.
// It is safe for concurrent use.
type FileSet struct {
	mu    sync.RWMutex
	files []*File
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]*File, 0),
	}
}

// Add stores already-normalized content, computes LineIdx and Hash, and returns a new FileID.
// Adding the same path twice yields two independent versions.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	f := &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	id, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	f.ID = FileID(id)
	fileSet.files = append(fileSet.files, f)
	return f.ID
}

// AddVirtual adds an in-memory file (stdin, test, generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Load reads a UTF-8 file from the OS filesystem with default options.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	return fileSet.LoadFS(afero.NewOsFs(), path, LoadOptions{})
}

// LoadFS reads path from fsys, transcodes it to UTF-8, strips a BOM,
// optionally normalizes CRLF and calls Add.
func (fileSet *FileSet) LoadFS(fsys afero.Fs, path string, opts LoadOptions) (FileID, error) {
	content, err := afero.ReadFile(fsys, path)
	if err != nil {
		return 0, err
	}

	var flags FileFlags
	content, transcoded, err := transcode(content, opts.Encoding)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if transcoded {
		flags |= FileTranscoded
	}
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if !opts.KeepCRLF {
		var hadCRLF bool
		content, hadCRLF = normalizeCRLF(content)
		if hadCRLF {
			flags |= FileNormalizedCRLF
		}
	}
	return fileSet.Add(path, content, flags), nil
}

// Get returns the file for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return fileSet.files[id]
}

// Len reports how many file versions the set holds.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	return f.Position(span.Start), f.Position(span.End)
}

// Position converts a byte offset of f into a line/column pair.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Slice returns the text covered by span. The span must belong to f.
func (f *File) Slice(span Span) string {
	return string(f.Content[span.Start:span.End])
}

// Len returns the content length as a span offset.
func (f *File) Len() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return n
}

// GetLine returns the 1-based line lineNum without its trailing newline,
// or "" if the file has no such line.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	lines := uint32(len(f.LineIdx))
	var start uint32
	if lineNum > 1 {
		if lineNum-2 >= lines {
			return ""
		}
		start = f.LineIdx[lineNum-2] + 1
	}
	end := f.Len()
	if lineNum-1 < lines {
		end = f.LineIdx[lineNum-1]
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}
