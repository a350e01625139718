package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/vmihailenco/msgpack/v5"

	"stlex/internal/lexer"
	"stlex/internal/source"
	"stlex/internal/token"
)

// Current schema version - increment when DiskPayload format or scanner rules change
const diskCacheSchemaVersion uint16 = 1

// CacheKey identifies a token stream: file content plus the options that shape it.
type CacheKey [32]byte

// DiskCache stores token streams on disk, keyed by content hash.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	fs  afero.Fs
	dir string
}

// DiskPayload is the cached form of one token stream. Text is not stored;
// it is re-sliced from the file content on load.
type DiskPayload struct {
	Schema   uint16
	Coalesce bool
	Limit    int
	Tokens   []CachedToken
}

// CachedToken is a token without its file id and text.
type CachedToken struct {
	Kind  uint8
	Start uint32
	End   uint32
}

// OpenDiskCache initializes a disk cache at the standard location ($XDG_CACHE_HOME/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(afero.NewOsFs(), filepath.Join(base, app))
}

// NewDiskCache creates a cache rooted at dir on fsys.
func NewDiskCache(fsys afero.Fs, dir string) (*DiskCache, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{fs: fsys, dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

// KeyFor derives the cache key for file scanned with opts.
func KeyFor(file *source.File, opts lexer.Options) CacheKey {
	h := sha256.New()
	_, _ = h.Write(file.Hash[:])
	var buf [11]byte
	binary.LittleEndian.PutUint16(buf[0:2], diskCacheSchemaVersion)
	if opts.Coalesce {
		buf[2] = 1
	}
	binary.LittleEndian.PutUint64(buf[3:], uint64(max(opts.MaxTokens, 0)))
	_, _ = h.Write(buf[:])
	var out CacheKey
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "tokens", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key CacheKey, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := c.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := afero.TempFile(c.fs, filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = c.fs.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// atomic replace
	return c.fs.Rename(f.Name(), p)
}

// Get reads a payload. A missing entry or a payload from another schema is a miss.
func (c *DiskCache) Get(key CacheKey, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := c.fs.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("cache entry %x: %w", key[:4], err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.fs.RemoveAll(c.dir); err != nil {
		return err
	}
	return c.fs.MkdirAll(c.dir, 0o755)
}

func tokensToPayload(tokens []token.Token, opts lexer.Options) *DiskPayload {
	payload := &DiskPayload{
		Schema:   diskCacheSchemaVersion,
		Coalesce: opts.Coalesce,
		Limit:    opts.MaxTokens,
		Tokens:   make([]CachedToken, len(tokens)),
	}
	for i, tok := range tokens {
		payload.Tokens[i] = CachedToken{Kind: uint8(tok.Kind), Start: tok.Span.Start, End: tok.Span.End}
	}
	return payload
}

// payloadToTokens rebuilds tokens for file. It fails on spans outside the content.
func payloadToTokens(file *source.File, payload *DiskPayload) ([]token.Token, error) {
	size := file.Len()
	tokens := make([]token.Token, len(payload.Tokens))
	for i, ct := range payload.Tokens {
		if ct.Start > ct.End || ct.End > size {
			return nil, fmt.Errorf("cache entry for %s: span %d-%d out of range", file.Path, ct.Start, ct.End)
		}
		span := source.Span{File: file.ID, Start: ct.Start, End: ct.End}
		tokens[i] = token.Token{Kind: token.Kind(ct.Kind), Span: span, Text: file.Slice(span)}
	}
	return tokens, nil
}
