package config

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// SessionStoreKind selects where browser sessions are kept.
type SessionStoreKind string

const (
	// SessionStoreMemory keeps sessions in process memory. Restarting logs everybody out.
	SessionStoreMemory SessionStoreKind = "memory"
	// SessionStoreRedis keeps sessions in Redis so they survive restarts and span replicas.
	SessionStoreRedis SessionStoreKind = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionStoreKind.
func (k *SessionStoreKind) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*k = SessionStoreKind(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionStoreKind: %q (valid options: memory, redis)", v)
	}
}

// BootstrapAdminConfig describes the admin account created on every start.
type BootstrapAdminConfig struct {
	Username    string `env:"USERNAME"     envDefault:"harmad"`
	Password    string `env:"PASSWORD"     envDefault:"40222050"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"مدیر"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Bootstrap is the admin account seeded at startup.
	Bootstrap BootstrapAdminConfig `envPrefix:"AUTH_BOOTSTRAP_"`

	// SessionTTL is how long a login stays valid.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"8h"`

	// SessionStore selects the session backend.
	SessionStore SessionStoreKind `env:"AUTH_SESSION_STORE" envDefault:"memory"`

	// BcryptCost is the work factor used when hashing passwords.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.Bootstrap.Username = strings.TrimSpace(a.Bootstrap.Username)
	a.Bootstrap.DisplayName = strings.TrimSpace(a.Bootstrap.DisplayName)
	if a.SessionTTL <= 0 {
		a.SessionTTL = 8 * time.Hour
	}
	if a.SessionStore == "" {
		a.SessionStore = SessionStoreMemory
	}
	if a.BcryptCost < bcrypt.MinCost || a.BcryptCost > bcrypt.MaxCost {
		a.BcryptCost = bcrypt.DefaultCost
	}
}
