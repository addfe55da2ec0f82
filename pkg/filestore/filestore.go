package filestore

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store persists uploaded files on the local filesystem and hands back
// relative paths suitable for storing in the database. Files are always
// written before the referencing database row.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the reader's content under a generated unique filename,
// keeping the extension of the original name, and returns the relative path.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	dest := filepath.Join(s.dir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("failed to write file %s: %w", dest, err)
	}
	return filepath.ToSlash(filepath.Join(filepath.Base(s.dir), name)), nil
}

// SaveMultipart stores an uploaded multipart file and returns its relative path.
func (s *Store) SaveMultipart(fh *multipart.FileHeader) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", fmt.Errorf("cannot store empty file")
	}
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()
	return s.Save(fh.Filename, src)
}

// Delete removes a previously stored file. Failures are logged and swallowed
// so a missing old file never blocks an update.
func (s *Store) Delete(relPath string) {
	if relPath == "" {
		return
	}
	name := filepath.Base(relPath)
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to delete file %s: %v", relPath, err)
	}
}
