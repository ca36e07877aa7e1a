package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// documentMode is applied to staged files, which os.CreateTemp opens as 0600.
const documentMode fs.FileMode = 0o644

var linkFile = os.Link

// FileBackend keeps each document as <name>.json under a base directory.
type FileBackend struct {
	basePath string
}

// NewFileBackend creates the base directory if missing.
func NewFileBackend(basePath string) (*FileBackend, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("data dir is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{basePath: basePath}, nil
}

// Path returns the file holding the named document.
func (f *FileBackend) Path(name string) string {
	return filepath.Join(f.basePath, safeName(name)+".json")
}

func (f *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(f.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrDocumentMissing
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Write stages data in a temp file next to the target and renames it into
// place, so readers see either the old or the new document.
func (f *FileBackend) Write(_ context.Context, name string, data []byte) error {
	tmp, err := f.stage(name, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, f.Path(name)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// Init links a staged copy into place; an existing document is left untouched.
// Filesystems without hard links get an exclusive create instead.
func (f *FileBackend) Init(_ context.Context, name string, data []byte) error {
	target := f.Path(name)
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	tmp, err := f.stage(name, data)
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp) }()
	err = linkFile(tmp, target)
	switch {
	case err == nil, errors.Is(err, fs.ErrExist):
		return nil
	case errors.Is(err, errors.ErrUnsupported), errors.Is(err, syscall.EPERM):
		return createExclusive(target, name, data)
	default:
		return fmt.Errorf("init %s: %w", name, err)
	}
}

func createExclusive(target, name string, data []byte) error {
	file, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, documentMode)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("init %s: %w", name, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return fmt.Errorf("init %s: %w", name, err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return fmt.Errorf("init %s: %w", name, err)
	}
	return file.Close()
}

func (f *FileBackend) stage(name string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(f.basePath, ".tmp-"+safeName(name)+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(documentMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return tmp.Name(), nil
}

func safeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return "document"
	}
	return name
}
