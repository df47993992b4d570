package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dimerapp/config-parser/internal/document"
)

// ErrNotFound is returned by ReadJSON when the file does not exist.
var ErrNotFound = errors.New("file not found")

// Disk reads and writes JSON documents on the local file system.
type Disk struct {
	// DirPerm is used for created directories (default 0o755).
	DirPerm fs.FileMode
	// FilePerm is used for written files (default 0o644).
	FilePerm fs.FileMode
}

// NewDisk returns a Disk store with default permissions.
func NewDisk() *Disk {
	return &Disk{DirPerm: 0o755, FilePerm: 0o644}
}

// ReadJSON reads and decodes a JSON object preserving key order.
func (d *Disk) ReadJSON(ctx context.Context, path string) (*document.Map, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Exists reports whether path exists.
func (d *Disk) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}

// OutputJSON writes value as indented JSON, creating parent directories. The file
// is replaced atomically.
func (d *Disk) OutputJSON(ctx context.Context, path string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := document.MarshalIndent(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, d.dirPerm()); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(d.filePerm()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates path and its parents when missing.
func (d *Disk) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(path, d.dirPerm()); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

func (d *Disk) dirPerm() fs.FileMode {
	if d == nil || d.DirPerm == 0 {
		return 0o755
	}
	return d.DirPerm
}

func (d *Disk) filePerm() fs.FileMode {
	if d == nil || d.FilePerm == 0 {
		return 0o644
	}
	return d.FilePerm
}
