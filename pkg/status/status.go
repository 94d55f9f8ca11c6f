// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome represents what happened to a file during a step
type Outcome int

const (
	OutcomeUnknown   Outcome = iota
	OutcomePatched           // File content was rewritten
	OutcomeApplied           // Payload already present, file skipped
	OutcomeUnchanged         // Nothing to do, file left as is
	OutcomeMissing           // File does not exist, skipped
	OutcomeFailed            // Precondition failed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomePatched:
		return "patched"
	case OutcomeApplied:
		return "applied"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeMissing:
		return "missing"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo records the result of one step against one file
type FileInfo struct {
	Path     string  // Path relative to the base directory
	Step     string  // Name of the step that produced this entry
	Outcome  Outcome // What happened
	Detail   string  // Short human readable reason
	Checksum string  // Content hash after the step, empty when unread
	Diff     string  // Preview of the change, only set in dry runs
	Error    error   // Any error associated with this file
}

// 💾 FileManager handles all file system operations
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, content []byte) error
	FileExists(ctx context.Context, path string) (bool, error)

	// Glob expands a doublestar pattern relative to the base directory
	Glob(ctx context.Context, pattern string) ([]string, error)
}

// 📈 StatusReporter tracks per-file outcomes
type StatusReporter interface {
	TrackFile(ctx context.Context, info FileInfo)
	ListFiles(ctx context.Context) []FileInfo
	Summary(ctx context.Context) map[Outcome]int

	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// 🔧 Manager implements both FileManager and StatusReporter
type Manager struct {
	baseDir   string        // Base directory for all operations
	formatter FileFormatter // Formatter for status messages

	mu    sync.RWMutex
	files []FileInfo

	total     int
	processed int
}

// 🏭 New creates a new status manager rooted at baseDir
func New(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = "."
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		formatter: NewDefaultFileFormatter(),
	}
}

// BaseDir returns the directory relative paths are resolved against
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// 🔒 getAbsPath returns the path on disk for a given relative path
func (m *Manager) getAbsPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.baseDir, p)
}

// 🔍 Checksum generates a SHA-256 hash of the content
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// FileManager interface implementation

func (m *Manager) ReadFile(ctx context.Context, p string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(p))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFile overwrites the file through a uniquely named temporary sibling
// and a rename. Symlinks are resolved first so the linked file is the one
// replaced, and the existing permission bits are kept.
func (m *Manager) WriteFile(ctx context.Context, p string, content []byte) error {
	absPath := m.getAbsPath(p)

	target, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Errorf("resolving file: %w", err)
		}
		target = absPath
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if err := writeTemp(tmp, content, mode); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err := os.Rename(tempPath, target); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", p).Str("target", target).Int("bytes", len(content)).Msg("wrote file")
	return nil
}

// writeTemp fills and closes tmp, always closing it
func writeTemp(tmp *os.File, content []byte, mode os.FileMode) error {
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	return nil
}

func (m *Manager) FileExists(ctx context.Context, p string) (bool, error) {
	info, err := os.Stat(m.getAbsPath(p))
	if err == nil {
		if info.IsDir() {
			return false, errors.Errorf("path is a directory: %s", p)
		}
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

func (m *Manager) Glob(ctx context.Context, pattern string) ([]string, error) {
	pattern = path.Clean(filepath.ToSlash(strings.TrimPrefix(pattern, "./")))
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid glob pattern: %s", pattern)
	}

	fsys := os.DirFS(m.baseDir)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, errors.Errorf("expanding %s: %w", pattern, err)
	}

	files := matches[:0]
	for _, match := range matches {
		info, err := fs.Stat(fsys, match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, filepath.FromSlash(match))
	}
	sort.Strings(files)

	zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Int("matches", len(files)).Msg("expanded glob")
	return files, nil
}

// IsGlob reports whether p contains glob meta characters
func IsGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// StatusReporter interface implementation

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files = append(m.files, info)

	msg := m.formatter.FormatOutcome(info.Path, info.Outcome)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	zerolog.Ctx(ctx).Debug().
		Str("path", info.Path).
		Str("step", info.Step).
		Stringer("outcome", info.Outcome).
		Msg(msg)
}

func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, len(m.files))
	copy(files, m.files)
	return files
}

func (m *Manager) Summary(ctx context.Context) map[Outcome]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[Outcome]int)
	for _, info := range m.files {
		counts[info.Outcome]++
	}
	return counts
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}
