package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the text hand-off files in one directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Dir() string {
	return s.dir
}

// Path resolves name inside the store. Only the base name is used, so a
// caller cannot escape the directory.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *FileStore) Write(name, content string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("artifact name is empty")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create outputs dir: %w", err)
	}
	path := s.Path(name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func (s *FileStore) Read(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
