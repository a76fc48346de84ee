package data

import (
	"context"
	"slices"
	"sync"

	domainauth "github.com/target/q-inventory/internal/domain/auth"
)

// AccountRepo keeps user accounts in process memory, in creation order.
type AccountRepo struct {
	mu           sync.RWMutex
	accounts     []domainauth.Account
	timeProvider TimeProvider
}

// NewAccountRepo creates an empty AccountRepo with the real clock.
func NewAccountRepo() *AccountRepo {
	return NewAccountRepoWithTimeProvider(RealTimeProvider{})
}

// NewAccountRepoWithTimeProvider creates an AccountRepo with a custom time provider (useful for tests).
func NewAccountRepoWithTimeProvider(tp TimeProvider) *AccountRepo {
	return &AccountRepo{timeProvider: tp}
}

// List returns every account in creation order.
func (r *AccountRepo) List(_ context.Context) ([]domainauth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.accounts), nil
}

// GetByID returns a copy of the account with the given id.
func (r *AccountRepo) GetByID(_ context.Context, id string) (*domainauth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := slices.IndexFunc(r.accounts, func(a domainauth.Account) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrAccountNotFound
	}
	a := r.accounts[i]
	return &a, nil
}

// GetByUsername looks an account up by exact, case-sensitive username.
func (r *AccountRepo) GetByUsername(_ context.Context, username string) (*domainauth.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOfUsername(username)
	if i < 0 {
		return nil, ErrAccountNotFound
	}
	a := r.accounts[i]
	return &a, nil
}

// Create appends acct. The uniqueness check and the append happen under one lock.
func (r *AccountRepo) Create(_ context.Context, acct domainauth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOfUsername(acct.Username) >= 0 {
		return ErrUsernameExists
	}
	if acct.CreatedAt.IsZero() {
		acct.CreatedAt = r.timeProvider.Now().UTC()
	}

	next := make([]domainauth.Account, len(r.accounts), len(r.accounts)+1)
	copy(next, r.accounts)
	r.accounts = append(next, acct)
	return nil
}

// UpdatePasswordHash replaces the stored hash of one account.
func (r *AccountRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.accounts, func(a domainauth.Account) bool { return a.ID == id })
	if i < 0 {
		return ErrAccountNotFound
	}
	next := slices.Clone(r.accounts)
	next[i].PasswordHash = hash
	r.accounts = next
	return nil
}

func (r *AccountRepo) indexOfUsername(username string) int {
	return slices.IndexFunc(r.accounts, func(a domainauth.Account) bool { return a.Username == username })
}
