package ports_test

import (
	"testing"

	"github.com/target/q-inventory/internal/adapters/bcrypt"
	"github.com/target/q-inventory/internal/adapters/memory"
	"github.com/target/q-inventory/internal/adapters/redis"
	"github.com/target/q-inventory/internal/mocks"
	authmocks "github.com/target/q-inventory/internal/mocks/auth"
	"github.com/target/q-inventory/internal/ports"
)

// This test only verifies that adapters and mocks conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.SessionStore = (*memory.SessionStore)(nil)
	var _ ports.SessionStore = (*redis.SessionStore)(nil)
	var _ ports.SessionStore = (*mocks.MockSessionStore)(nil)
	var _ ports.SessionStore = (*authmocks.MemorySessionStore)(nil)
	var _ ports.PasswordHasher = (*bcrypt.Hasher)(nil)
	var _ ports.PasswordHasher = (*mocks.MockPasswordHasher)(nil)
	var _ ports.PasswordHasher = authmocks.PlainHasher{}
}
