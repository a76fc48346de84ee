package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"strings"
	"sync"

	domainauth "github.com/target/q-inventory/internal/domain/auth"
	"github.com/target/q-inventory/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStore   = (*MemorySessionStore)(nil)
	_ ports.PasswordHasher = PlainHasher{}
)

// MemorySessionStore is an in-memory session store for unit tests.
// Unlike the production memory adapter it never expires anything.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len reports how many sessions are stored.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

const plainPrefix = "plain:"

// ErrPasswordMismatch is returned by PlainHasher.Compare on a wrong password.
var ErrPasswordMismatch = errors.New("password mismatch")

// PlainHasher "hashes" by prefixing, so tests can assert on stored values
// without paying for bcrypt.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) {
	return plainPrefix + password, nil
}

func (PlainHasher) Compare(hash, password string) error {
	if !strings.HasPrefix(hash, plainPrefix) || hash[len(plainPrefix):] != password {
		return ErrPasswordMismatch
	}
	return nil
}
