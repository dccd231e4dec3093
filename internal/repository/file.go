package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileSlotRepository stores every slot as <Dir>/<key>.json.
type FileSlotRepository struct {
	// Dir is the directory holding the slot files. It is created on first write.
	Dir string
}

// NewFileSlotRepository creates a FileSlotRepository rooted at dir.
func NewFileSlotRepository(dir string) *FileSlotRepository {
	return &FileSlotRepository{Dir: dir}
}

func (r *FileSlotRepository) path(key string) string {
	return filepath.Join(r.Dir, key+".json")
}

// Get reads the slot file. A missing file yields ErrSlotNotFound.
func (r *FileSlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(r.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return data, nil
}

// Put replaces the slot file. The value is written to a temporary file in
// the same directory and renamed over the old one, so readers never see a
// partial write.
func (r *FileSlotRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(r.Dir, 0o700); err != nil {
		return fmt.Errorf("create slot dir: %w", err)
	}

	f, err := os.CreateTemp(r.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(value); err != nil {
		f.Close()
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close slot %q: %w", key, err)
	}
	if err := os.Rename(tmp, r.path(key)); err != nil {
		return fmt.Errorf("replace slot %q: %w", key, err)
	}
	return nil
}
