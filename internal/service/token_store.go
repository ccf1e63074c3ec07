package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// CachedToken is the admin bearer token together with the moment the
// backend stops accepting it.
type CachedToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenStore holds at most one CachedToken.
type TokenStore interface {
	Load(ctx context.Context) (CachedToken, bool, error)
	Save(ctx context.Context, token CachedToken) error
	Clear(ctx context.Context) error
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token *CachedToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load(ctx context.Context) (CachedToken, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return CachedToken{}, false, nil
	}
	return *s.token, true, nil
}

func (s *MemoryTokenStore) Save(ctx context.Context, token CachedToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &token
	return nil
}

func (s *MemoryTokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}

// RedisTokenStore shares the token between gateway replicas so they do not
// each log in separately.
type RedisTokenStore struct {
	rdb *redis.Client
	key string
}

func NewRedisTokenStore(rdb *redis.Client, key string) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb, key: key}
}

func (s *RedisTokenStore) Load(ctx context.Context) (CachedToken, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedToken{}, false, nil
	}
	if err != nil {
		return CachedToken{}, false, err
	}
	var token CachedToken
	if err := json.Unmarshal(raw, &token); err != nil {
		// a corrupt entry is as good as none
		return CachedToken{}, false, nil
	}
	return token, true, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, token CachedToken) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return s.Clear(ctx)
	}
	return s.rdb.Set(ctx, s.key, raw, ttl).Err()
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}
