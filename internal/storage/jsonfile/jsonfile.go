// Package jsonfile provides a flat-file implementation of
// storage.Repository: the whole student table lives in one JSON document,
// an object keyed by student identifier.
//
// Every Load reads the entire file and every Save rewrites it. There is no
// locking; with two concurrent writers the last one wins.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/student-directory/internal/types"
)

// JSONFile is the concrete storage.Repository backed by a JSON document.
type JSONFile struct {
	path   string
	atomic bool
}

// Option configures a JSONFile.
type Option func(*JSONFile)

// WithAtomicWrites makes Save write to a temp file, fsync it and rename it
// over the document instead of truncating the document in place.
func WithAtomicWrites(enabled bool) Option {
	return func(f *JSONFile) { f.atomic = enabled }
}

// New returns a repository for the document at path. If the document does
// not exist yet it is created holding an empty table ({}).
func New(path string, opts ...Option) (*JSONFile, error) {
	f := &JSONFile{path: path}
	for _, opt := range opts {
		opt(f)
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("jsonfile.New: create dir: %w", err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("jsonfile.New: create document: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("jsonfile.New: stat: %w", err)
	}

	return f, nil
}

// Path returns the location of the document.
func (f *JSONFile) Path() string {
	return f.path
}

// Load reads and decodes the whole document.
func (f *JSONFile) Load(ctx context.Context) (*types.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("Load: read %s: %w", f.path, err)
	}

	table := types.NewTable()
	if err := json.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("Load: decode %s: %w", f.path, err)
	}

	return table, nil
}

// Save encodes table and writes it over the document.
func (f *JSONFile) Save(ctx context.Context, table *types.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("Save: encode: %w", err)
	}

	if !f.atomic {
		if err := os.WriteFile(f.path, data, 0o644); err != nil {
			return fmt.Errorf("Save: write %s: %w", f.path, err)
		}
		return nil
	}

	return writeAtomic(f.path, data)
}

// writeAtomic writes data next to path, fsyncs it and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("Save: create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("Save: write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("Save: fsync: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("Save: close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("Save: rename: %w", err)
	}

	return nil
}
