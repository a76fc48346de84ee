// Package mocks provides gomock implementations of the q-inventory ports.
//
// The mocks are generated with go.uber.org/mock (mockgen) and provide a fluent
// API for setting up expectations. To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockSessionStore(ctrl)
//	store.EXPECT().Get(gomock.Any(), "sid").Return(sess, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/target/q-inventory/internal/ports SessionStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=password_hasher_mock.go github.com/target/q-inventory/internal/ports PasswordHasher
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=item_repository_mock.go github.com/target/q-inventory/internal/core ItemRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=account_repository_mock.go github.com/target/q-inventory/internal/core AccountRepository
