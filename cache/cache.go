// Package cache stores downloaded Contents archives on disk for reuse.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrMiss means no cached Contents file exists where one was expected.
var ErrMiss = errors.New("no cached Contents file")

// Path is the cache location of the Contents archive for arch under dir.
func Path(dir, arch string) string {
	return filepath.Join(dir, fmt.Sprintf("Contents-%v.gz", arch))
}

// Save writes content to path atomically: a uuid-suffixed temp file in the
// same directory, then a rename.
func Save(path string, content []byte) error {
	tmp := fmt.Sprintf("%v.%v.tmp", path, uuid.New().String())
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("writing %v: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %v: %w", tmp, err)
	}
	return nil
}

// Stat reports whether a cached archive exists at path. A missing file is
// ErrMiss; other stat failures pass through.
func Stat(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrMiss, path)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %v is a directory", ErrMiss, path)
	}
	return nil
}
