// Package storage holds the afs-backed file primitives shared by the
// configuration document and the pending queues.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Files reads and atomically replaces whole files.
type Files struct {
	fs afs.Service
}

func NewFiles(fs afs.Service) *Files {
	if fs == nil {
		fs = afs.New()
	}
	return &Files{fs: fs}
}

// Resolve turns a possibly relative location into the absolute path afs works with.
func Resolve(location string) (string, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", location, err)
	}
	return abs, nil
}

func (f *Files) Exists(ctx context.Context, location string) (bool, error) {
	path, err := Resolve(location)
	if err != nil {
		return false, err
	}
	return f.fs.Exists(ctx, path)
}

// Read returns the file content. Callers check Exists first when absence is
// not an error for them.
func (f *Files) Read(ctx context.Context, location string) ([]byte, error) {
	path, err := Resolve(location)
	if err != nil {
		return nil, err
	}
	return f.fs.DownloadWithURL(ctx, path)
}

// WriteAtomic writes data next to the destination and renames it into place,
// so readers never observe a partially written file.
func (f *Files) WriteAtomic(ctx context.Context, location string, data []byte) error {
	path, err := Resolve(location)
	if err != nil {
		return err
	}
	tmp := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString())
	if err := f.fs.Upload(ctx, tmp, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := f.fs.Move(ctx, tmp, path); err != nil {
		_ = f.fs.Delete(ctx, tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
