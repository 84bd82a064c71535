package auth

import (
	"bytes"
	"context"
	"encoding/gob"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const SessionCookie = "session_id"

const (
	// SessionTTL is the lifetime of a normal login.
	SessionTTL = time.Hour * 24

	// RememberTTL is the lifetime when the user checked "remember me".
	RememberTTL = time.Hour * 24 * 30
)

type Session struct {
	UserID   uint `json:"user_id"`
	Remember bool `json:"remember"`
}

func (s Session) TTL() time.Duration {
	if s.Remember {
		return RememberTTL
	}

	return SessionTTL
}

// SessionStore persists sessions server-side keyed by an opaque id. Get
// returns (nil, nil) for unknown or expired ids.
type SessionStore interface {
	Create(ctx context.Context, s Session) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type RedisSessionStore struct {
	Client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func (r *RedisSessionStore) Create(ctx context.Context, s Session) (string, error) {
	sessionID := uuid.New().String()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return "", err
	}

	status := r.Client.SetEX(ctx, sessionID, buf.Bytes(), s.TTL())
	if status.Err() != nil {
		return "", status.Err()
	}

	return sessionID, nil
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	res := r.Client.Get(ctx, id)
	if res.Err() != nil {
		if res.Err() == redis.Nil {
			return nil, nil
		}

		return nil, res.Err()
	}

	b, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	var s Session
	if err := gob.NewDecoder(bytes.NewBuffer(b)).Decode(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return r.Client.Del(ctx, id).Err()
}
