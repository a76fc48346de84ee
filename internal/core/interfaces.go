package core

import (
	"context"

	domainauth "github.com/target/q-inventory/internal/domain/auth"
	"github.com/target/q-inventory/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// ItemRepository defines the interface for catalog data operations.
// List returns a copy in catalog order; mutating it never affects the store.
type ItemRepository interface {
	List(ctx context.Context) ([]model.Item, error)
	GetByID(ctx context.Context, id string) (*model.Item, error)
	Append(ctx context.Context, item model.Item) error
	// Update applies fn to the stored item under the repository lock and returns the result.
	// When fn returns an error the item is left unchanged.
	Update(ctx context.Context, id string, fn func(*model.Item) error) (*model.Item, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	List(ctx context.Context) ([]domainauth.Account, error)
	GetByID(ctx context.Context, id string) (*domainauth.Account, error)
	GetByUsername(ctx context.Context, username string) (*domainauth.Account, error)
	// Create appends the account, failing with a duplicate-username error when taken.
	Create(ctx context.Context, acct domainauth.Account) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
