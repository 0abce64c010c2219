package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultStoreDir = "~/.config/prefcenter/store"

// File persists one namespace as a TOML document at <dir>/<namespace>.toml.
// Every Apply rewrites the document.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]any
}

var _ Store = (*File)(nil)

// OpenFile loads the namespace document, creating nothing until the first
// write. A missing or unreadable document starts empty.
func OpenFile(dir, namespace string) (*File, error) {
	resolved, err := resolveDir(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve store dir: %w", err)
	}
	f := &File{
		path:   filepath.Join(resolved, namespace+".toml"),
		values: make(map[string]any),
	}

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		slog.Warn("store file unreadable, starting empty", "path", f.path, "error", err)
		return f, nil
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		slog.Warn("store file unreadable, starting empty", "path", f.path, "error", err)
		return f, nil
	}
	if err := toml.Unmarshal(bytes, &f.values); err != nil {
		slog.Warn("store file corrupt, starting empty", "path", f.path, "error", err)
		f.values = make(map[string]any)
	}
	return f, nil
}

// Path returns the document location.
func (f *File) Path() string { return f.path }

func (f *File) Bool(_ context.Context, key string, def bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key].(bool); ok {
		return v, nil
	}
	return def, nil
}

func (f *File) String(_ context.Context, key string, def string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.values[key].(string); ok {
		return v, nil
	}
	return def, nil
}

func (f *File) Edit() Editor {
	return &batch{commit: f.commit}
}

func (f *File) commit(_ context.Context, writes []write) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := maps.Clone(f.values)
	for _, w := range writes {
		next[w.key] = w.value
	}

	bytes, err := toml.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	if err := writeFileAtomic(f.path, bytes, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	f.values = next
	return nil
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-store-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

func resolveDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return expandPath(defaultStoreDir)
	}
	return expandPath(dir)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
