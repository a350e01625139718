package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var inlineSeeds = []string{
	"",
	"PROGRAM main\nVAR x : INT; END_VAR\nEND_PROGRAM",
	"(* a (* b *) c",
	"abc \"hello",
	"'x' \"y\" // tail\n",
	"//\n//",
	"(*",
	"*)",
	"IF a THEN b := SQRT(c); END_IF;",
	"größe := 1; \xff",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".st" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(b []byte) []byte {
	if len(b) > maxSeedBytes {
		return b[:maxSeedBytes]
	}
	return b
}
