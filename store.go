package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// KV is the persistence medium: string values under string keys.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Store reads and writes the quest log as one JSON blob under a single key.
// Load and Save never fail from the caller's point of view; problems are logged.
type Store struct {
	kv  KV
	key string
	log *slog.Logger
}

func NewStore(kv KV, key string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{kv: kv, key: key, log: log.With("key", key)}
}

// Load returns the persisted state, or a fresh default when nothing usable is stored.
func (s *Store) Load(ctx context.Context) *AppState {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("read state failed, using defaults", "err", err)
		return DefaultState()
	}
	if !ok || strings.TrimSpace(raw) == "" {
		s.log.Info("no saved state, using defaults")
		return DefaultState()
	}

	var st AppState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.log.Warn("saved state is not valid JSON, using defaults", "err", err)
		return DefaultState()
	}
	st.Overlay = clampOverlay(st.Overlay)
	return &st
}

// Save writes the full state. Failures are logged and dropped; nothing is retried.
func (s *Store) Save(ctx context.Context, st *AppState) {
	data, err := json.Marshal(st)
	if err != nil {
		s.log.Error("encode state failed", "err", err)
		return
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.log.Error("write state failed", "err", err)
		return
	}
	s.log.Debug("state saved", "bytes", len(data))
}

// Reset overwrites the stored blob with the default state.
func (s *Store) Reset(ctx context.Context) *AppState {
	st := DefaultState()
	s.Save(ctx, st)
	return st
}

// Raw returns the stored blob without decoding it.
func (s *Store) Raw(ctx context.Context) (string, bool, error) {
	return s.kv.Get(ctx, s.key)
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// fileKV keeps each key in its own JSON file inside dir.
type fileKV struct {
	dir string
}

func newFileKV(dir string) (*fileKV, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file store: missing dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &fileKV{dir: dir}, nil
}

// checkFileKey rejects keys that would resolve outside the store directory.
func checkFileKey(key string) error {
	if strings.TrimSpace(key) == "" || key == "." || strings.Contains(key, "..") ||
		strings.ContainsAny(key, `/\`) || filepath.Base(key) != key {
		return fmt.Errorf("file store: invalid key %q", key)
	}
	return nil
}

func (f *fileKV) path(key string) (string, error) {
	if err := checkFileKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *fileKV) Get(_ context.Context, key string) (string, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

// Set writes through a temp file and renames it over the target so a crash mid-write never
// leaves a truncated blob behind.
func (f *fileKV) Set(_ context.Context, key, value string) error {
	dest, err := f.path(key)
	if err != nil {
		return err
	}
	tmp := dest + "." + uuid.NewString()[:8] + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (f *fileKV) Close() error { return nil }

type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryKV) Close() error { return nil }
