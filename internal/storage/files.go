// Package storage implements local-disk file storage for uploaded content
// images. Files are opaque bytes to this layer; stored names are
// uuid-prefixed to avoid collisions.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore stores uploaded files under a single directory.
type DiskStore struct {
	dir string
}

// NewDiskStore returns a DiskStore rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create files dir %q: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Store writes each uploaded file under a fresh uuid name, keeping the
// original extension, and returns the stored names in input order.
func (s *DiskStore) Store(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	names := make([]string, 0, len(files))
	for _, fh := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := uuid.NewString() + filepath.Ext(fh.Filename)
		if err := s.writeOne(fh, name); err != nil {
			// Clean up the partial batch so no orphan files remain.
			_ = s.Remove(ctx, names)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// Remove deletes the named files, ignoring ones that are already gone.
func (s *DiskStore) Remove(_ context.Context, names []string) error {
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.dir, filepath.Base(name))); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %q: %w", name, err)
		}
	}
	return nil
}

// Replace reconciles the stored set against a new upload batch. A previous
// file survives when the batch re-sends it (matched by stored name and byte
// size); everything else previously stored is deleted, and the remaining
// uploads are stored fresh. Returns the new complete name set.
func (s *DiskStore) Replace(ctx context.Context, files []*multipart.FileHeader, prevNames []string) ([]string, error) {
	kept := make([]string, 0, len(prevNames))
	pending := append([]*multipart.FileHeader(nil), files...)

	var deleted []string
	for _, prev := range prevNames {
		info, err := os.Stat(filepath.Join(s.dir, filepath.Base(prev)))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		idx := -1
		for i, fh := range pending {
			if fh.Filename == prev && fh.Size == info.Size() {
				idx = i
				break
			}
		}
		if idx == -1 {
			deleted = append(deleted, prev)
		} else {
			kept = append(kept, prev)
			pending = append(pending[:idx], pending[idx+1:]...)
		}
	}

	if err := s.Remove(ctx, deleted); err != nil {
		return nil, err
	}

	created, err := s.Store(ctx, pending)
	if err != nil {
		return nil, err
	}
	return append(created, kept...), nil
}

func (s *DiskStore) writeOne(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	return nil
}
