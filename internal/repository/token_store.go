package repository

import (
	"context"
	"errors"
	"sync"
	"time"
)

// SQLiteTokenStore keeps the bearer token in the settings table under AuthTokenKey.
type SQLiteTokenStore struct {
	settings SettingsRepo
}

// NewSQLiteTokenStore creates a TokenStore backed by the given settings repo.
func NewSQLiteTokenStore(settings SettingsRepo) *SQLiteTokenStore {
	return &SQLiteTokenStore{settings: settings}
}

func (s *SQLiteTokenStore) Token(ctx context.Context) (string, error) {
	setting, err := s.settings.Get(ctx, AuthTokenKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (s *SQLiteTokenStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}
	return s.settings.Set(ctx, AuthTokenKey, token)
}

func (s *SQLiteTokenStore) ClearToken(ctx context.Context) error {
	return s.settings.Delete(ctx, AuthTokenKey)
}

// UpdatedAt reports when the token was last written. Zero if no token is stored.
func (s *SQLiteTokenStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	setting, err := s.settings.Get(ctx, AuthTokenKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return setting.UpdatedAt, nil
}

// MemoryTokenStore is a process-local TokenStore. Useful for tests and --no-store runs.
type MemoryTokenStore struct {
	mu      sync.Mutex
	token   string
	updated time.Time
	clears  int
	now     func() time.Time
}

// NewMemoryTokenStore creates a MemoryTokenStore seeded with token (may be empty).
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	s := &MemoryTokenStore{token: token, now: time.Now}
	if token != "" {
		s.updated = s.now()
	}
	return s
}

func (s *MemoryTokenStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) SetToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.updated = time.Time{}
	if token != "" {
		s.updated = s.now()
	}
	return nil
}

func (s *MemoryTokenStore) ClearToken(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.updated = time.Time{}
	s.clears++
	return nil
}

// UpdatedAt reports when the token was last set. Zero if no token is held.
func (s *MemoryTokenStore) UpdatedAt(context.Context) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated, nil
}

// Clears returns how many times ClearToken has been called.
func (s *MemoryTokenStore) Clears() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}
