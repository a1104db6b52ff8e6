// Package file stores every key as a JSON file inside one directory.
// External edits of those files are reported through fsnotify.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"stockroom/internal/core/store"
	"stockroom/pkg/logger"
)

var (
	_ store.Store   = (*Store)(nil)
	_ store.Watcher = (*Store)(nil)
)

const ext = ".json"

// Store is a directory of <key>.json files.
type Store struct {
	dir string

	mu sync.Mutex
	// last value this process wrote per key, used to drop our own fs events
	written map[string][]byte
}

// Open creates the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, written: make(map[string][]byte)}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+ext)
}

// Read returns the file contents for key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return raw, nil
}

// Write replaces the file for key through a temp file and rename.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}

	s.written[key] = append([]byte(nil), value...)
	return nil
}

// Watch reports changes to key's file made by other processes.
func (s *Store) Watch(ctx context.Context, key string) (<-chan store.Change, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	out := make(chan store.Change, 16)
	target := filepath.Clean(s.path(key))

	go func() {
		defer close(out)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if strings.HasPrefix(filepath.Base(ev.Name), ".") {
					continue
				}
				raw, err := os.ReadFile(target)
				if err != nil {
					continue
				}
				if s.isOwnWrite(key, raw) {
					continue
				}
				select {
				case out <- store.Change{Key: key, Value: raw, Origin: "file"}:
				default:
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn(ctx, "file watcher error", "dir", s.dir, "error", err)
			}
		}
	}()

	return out, nil
}

func (s *Store) isOwnWrite(key string, raw []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.written[key]
	return ok && bytes.Equal(last, raw)
}

// Close releases nothing; files are closed after every call.
func (s *Store) Close() error { return nil }
