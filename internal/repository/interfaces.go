package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// AuthTokenKey is the settings key under which the bearer token is persisted.
const AuthTokenKey = "authToken"

// Setting is one persisted key/value pair.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type SettingsRepo interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// TokenStore persists the API bearer token between runs.
// An absent token is reported as the empty string, not an error.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// TokenTimestamper is implemented by token stores that know when the
// token was last written.
type TokenTimestamper interface {
	UpdatedAt(ctx context.Context) (time.Time, error)
}
