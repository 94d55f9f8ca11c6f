package operation

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/walteh/pagepatch/pkg/status"
)

// stagedFiles keeps writes in memory and serves them back to later reads,
// leaving the wrapped FileManager untouched
type stagedFiles struct {
	status.FileManager

	mu     sync.RWMutex
	staged map[string][]byte
}

func newStagedFiles(files status.FileManager) *stagedFiles {
	return &stagedFiles{
		FileManager: files,
		staged:      make(map[string][]byte),
	}
}

func (s *stagedFiles) ReadFile(ctx context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	content, ok := s.staged[filepath.Clean(path)]
	s.mu.RUnlock()
	if ok {
		return append([]byte(nil), content...), nil
	}
	return s.FileManager.ReadFile(ctx, path)
}

func (s *stagedFiles) WriteFile(ctx context.Context, path string, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[filepath.Clean(path)] = append([]byte(nil), content...)
	return nil
}

func (s *stagedFiles) FileExists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	_, ok := s.staged[filepath.Clean(path)]
	s.mu.RUnlock()
	if ok {
		return true, nil
	}
	return s.FileManager.FileExists(ctx, path)
}
