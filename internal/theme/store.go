// Package theme persists the light/dark preference of each viewer.
package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Store loads and saves a theme per key. A missing key yields the default
// light theme, not an error.
type Store interface {
	Load(ctx context.Context, key string) (domain.Theme, error)
	Save(ctx context.Context, key string, theme domain.Theme) error
}

// Toggle flips the stored theme for key and returns the new value.
func Toggle(ctx context.Context, store Store, key string) (domain.Theme, error) {
	current, err := store.Load(ctx, key)
	if err != nil {
		return "", err
	}
	next := current.Toggle()
	if err := store.Save(ctx, key, next); err != nil {
		return "", err
	}
	return next, nil
}

// RedisKey namespaces an employee id.
func RedisKey(employeeID string) string {
	return "dashboard:theme:" + employeeID
}

// RedisStore keeps preferences in Redis under RedisKey.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, key string) (domain.Theme, error) {
	val, err := s.client.Get(ctx, RedisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.ThemeLight, nil
	}
	if err != nil {
		return "", fmt.Errorf("load theme: %w", err)
	}
	return domain.ParseTheme(val), nil
}

func (s *RedisStore) Save(ctx context.Context, key string, theme domain.Theme) error {
	if err := s.client.Set(ctx, RedisKey(key), string(theme), 0).Err(); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// MemoryStore is used when Redis is not configured.
type MemoryStore struct {
	mu     sync.RWMutex
	themes map[string]domain.Theme
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{themes: make(map[string]domain.Theme)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (domain.Theme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if theme, ok := s.themes[key]; ok {
		return theme, nil
	}
	return domain.ThemeLight, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, theme domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[key] = theme
	return nil
}

// preferences is the on-disk YAML schema of FileStore.
type preferences struct {
	Themes map[string]string `yaml:"themes"`
}

// FileStore keeps preferences in a YAML file, for the terminal client.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore uses the file at path. The file is created on first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFilePath is the preferences file under the user config dir.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mytickets", "preferences.yaml"), nil
}

func (s *FileStore) Load(_ context.Context, key string) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, err := s.read()
	if err != nil {
		return "", err
	}
	return domain.ParseTheme(prefs.Themes[key]), nil
}

func (s *FileStore) Save(_ context.Context, key string, theme domain.Theme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, err := s.read()
	if err != nil {
		return err
	}
	prefs.Themes[key] = string(theme)

	out, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	if err := os.WriteFile(s.path, out, 0o600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

func (s *FileStore) read() (preferences, error) {
	prefs := preferences{Themes: map[string]string{}}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(raw, &prefs); err != nil {
		return prefs, fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	if prefs.Themes == nil {
		prefs.Themes = map[string]string{}
	}
	return prefs, nil
}
