package redis

// Package redis provides Redis-based adapters for q-inventory.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/q-inventory/internal/domain/auth"
	"github.com/target/q-inventory/internal/ports"
)

const defaultSessionPrefix = "session:"

// SessionStore keeps browser sessions in Redis so they survive restarts.
// Keys expire with the session's ExpiresAt.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// SessionStoreOptions configures a SessionStore.
type SessionStoreOptions struct {
	// KeyPrefix is prepended to "session:" for every key (e.g. "qinv:").
	KeyPrefix string
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// NewSessionStore creates a new Redis-based session store.
func NewSessionStore(client redis.UniversalClient, opts SessionStoreOptions) *SessionStore {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		client: client,
		prefix: opts.KeyPrefix + defaultSessionPrefix,
		now:    now,
	}
}

func (s *SessionStore) key(id string) string { return s.prefix + id }

// Save writes the session with a TTL matching its remaining lifetime.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.client.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

// Get loads a session, returning ports.ErrSessionNotFound when missing or expired.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrSessionNotFound
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if unmarshalErr := json.Unmarshal(data, &sess); unmarshalErr != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", unmarshalErr)
	}

	// Key TTLs have second granularity; honour ExpiresAt exactly.
	if sess.Expired(s.now()) {
		if deleteErr := s.Delete(ctx, id); deleteErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", deleteErr)
		}
		return domainauth.Session{}, ports.ErrSessionNotFound
	}

	return sess, nil
}

// Delete removes the session. Unknown ids are not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(id)).Err()
}

const scanBatch = 100

// List returns every live session under the store's prefix, soonest expiry first.
// Entries that fail to decode are skipped.
func (s *SessionStore) List(ctx context.Context) ([]domainauth.Session, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domainauth.Session, 0, len(keys))
	now := s.now()
	for _, key := range keys {
		data, getErr := s.client.Get(ctx, key).Bytes()
		if getErr != nil {
			if errors.Is(getErr, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("redis get %s: %w", key, getErr)
		}
		var sess domainauth.Session
		if json.Unmarshal(data, &sess) != nil || sess.Expired(now) {
			continue
		}
		out = append(out, sess)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out, nil
}

// Purge deletes every session under the store's prefix and returns how many keys were removed.
func (s *SessionStore) Purge(ctx context.Context) (int, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		n, delErr := s.client.Del(ctx, keys[start:end]...).Result()
		if delErr != nil {
			return removed, fmt.Errorf("redis del: %w", delErr)
		}
		removed += int(n)
	}
	return removed, nil
}

func (s *SessionStore) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}
