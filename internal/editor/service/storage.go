package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage lays out uploaded background images under a per-session
// directory tree.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) SessionDir(token string) string {
	return filepath.Join(s.root, token)
}

func (s *FileStorage) UploadsDir(token string) string {
	return filepath.Join(s.SessionDir(token), "uploads")
}

func (s *FileStorage) UploadPath(token, filename string) string {
	return filepath.Join(s.UploadsDir(token), filename)
}

func (s *FileStorage) ExportsDir(token string) string {
	return filepath.Join(s.SessionDir(token), "exports")
}

func (s *FileStorage) ExportPath(token, filename string) string {
	return filepath.Join(s.ExportsDir(token), filename)
}

func (s *FileStorage) EnsureUploadsDir(token string) error {
	if err := os.MkdirAll(s.UploadsDir(token), 0o755); err != nil {
		return fmt.Errorf("mkdir uploads dir: %w", err)
	}
	return nil
}

func (s *FileStorage) EnsureExportsDir(token string) error {
	if err := os.MkdirAll(s.ExportsDir(token), 0o755); err != nil {
		return fmt.Errorf("mkdir exports dir: %w", err)
	}
	return nil
}

// SaveUpload writes an uploaded file and returns its absolute path.
func (s *FileStorage) SaveUpload(token, filename string, data []byte) (string, error) {
	if err := s.EnsureUploadsDir(token); err != nil {
		return "", err
	}
	target := s.UploadPath(token, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return target, nil
}
