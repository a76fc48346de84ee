package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/target/q-inventory/internal/core"
	domainauth "github.com/target/q-inventory/internal/domain/auth"
	apperrors "github.com/target/q-inventory/internal/errors"
	"github.com/target/q-inventory/internal/observability/metrics"
	"github.com/target/q-inventory/internal/ports"
)

// MinPasswordLength is the shortest password ChangePassword accepts, in characters.
const MinPasswordLength = 4

const defaultSessionTTL = 8 * time.Hour

var errSessionExpired = errors.New("session expired")

// IdentityAuthDeps groups the auth ports IdentityService depends on.
type IdentityAuthDeps struct {
	Sessions ports.SessionStore
	Hasher   ports.PasswordHasher
}

// IdentityRuntime groups optional runtime settings for IdentityService.
type IdentityRuntime struct {
	SessionTTL time.Duration
	Now        func() time.Time
	Logger     *slog.Logger
	Metrics    metrics.Sink
}

// IdentityServiceOptions groups dependencies for IdentityService.
type IdentityServiceOptions struct {
	Accounts core.AccountRepository
	Auth     IdentityAuthDeps
	Runtime  IdentityRuntime
}

// IdentityService owns accounts, credential checks and sessions.
type IdentityService struct {
	accounts core.AccountRepository
	sessions ports.SessionStore
	hasher   ports.PasswordHasher

	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	metrics metrics.Sink
}

// NewIdentityService constructs a new IdentityService.
func NewIdentityService(opts IdentityServiceOptions) *IdentityService {
	if opts.Accounts == nil {
		panic("AccountRepository is required")
	}
	if opts.Auth.Sessions == nil {
		panic("SessionStore is required")
	}
	if opts.Auth.Hasher == nil {
		panic("PasswordHasher is required")
	}

	rt := opts.Runtime
	if rt.SessionTTL <= 0 {
		rt.SessionTTL = defaultSessionTTL
	}
	if rt.Now == nil {
		rt.Now = time.Now
	}
	if rt.Logger == nil {
		rt.Logger = slog.Default()
	}
	if rt.Metrics == nil {
		rt.Metrics = metrics.NopSink{}
	}

	return &IdentityService{
		accounts: opts.Accounts,
		sessions: opts.Auth.Sessions,
		hasher:   opts.Auth.Hasher,
		ttl:      rt.SessionTTL,
		now:      rt.Now,
		logger:   rt.Logger.With("component", "identity"),
		metrics:  rt.Metrics,
	}
}

// Authenticate checks username and password and opens a session on success.
// Unknown usernames and wrong passwords fail the same way.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (*domainauth.Session, error) {
	acct, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			metrics.EmitLogin(s.metrics, metrics.ResultError)
			return nil, apperrors.InvalidCredentials()
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if cmpErr := s.hasher.Compare(acct.PasswordHash, password); cmpErr != nil {
		metrics.EmitLogin(s.metrics, metrics.ResultError)
		return nil, apperrors.InvalidCredentials()
	}

	issued := s.now()
	session := domainauth.Session{
		ID:          uuid.NewString(),
		AccountID:   acct.ID,
		Username:    acct.Username,
		DisplayName: acct.DisplayName,
		Role:        acct.Role,
		IssuedAt:    issued,
		ExpiresAt:   issued.Add(s.ttl),
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	metrics.EmitLogin(s.metrics, metrics.ResultSuccess)
	s.logger.InfoContext(ctx, "login", "username", acct.Username, "role", acct.Role)
	return &session, nil
}

// GetSession retrieves a live session by ID.
func (s *IdentityService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session. An empty ID is a no-op.
func (s *IdentityService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CreateAccountRequest represents parameters to create an account.
type CreateAccountRequest struct {
	Username    string          `json:"username"`
	Password    string          `json:"password"`
	DisplayName string          `json:"display_name"`
	Role        domainauth.Role `json:"role"`
}

// CreateAccount adds an account. Callers are expected to have checked the
// acting session is an admin; the HTTP layer does that with RequireRoleBrowser.
func (s *IdentityService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*domainauth.Account, error) {
	username := strings.TrimSpace(req.Username)
	displayName := strings.TrimSpace(req.DisplayName)
	if username == "" || displayName == "" || strings.TrimSpace(req.Password) == "" {
		return nil, apperrors.Validation("username, password and display name are required")
	}

	role, ok := domainauth.ParseRole(string(req.Role))
	if !ok {
		return nil, apperrors.ValidationField("role", "role must be admin or user")
	}

	if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.DuplicateUsername(username)
	} else if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	acct := domainauth.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         role,
	}
	if createErr := s.accounts.Create(ctx, acct); createErr != nil {
		// Lost a race with a concurrent create of the same username.
		if apperrors.IsDuplicateUsername(createErr) {
			return nil, apperrors.DuplicateUsername(username)
		}
		return nil, fmt.Errorf("create account: %w", createErr)
	}

	created, err := s.accounts.GetByID(ctx, acct.ID)
	if err != nil {
		return nil, fmt.Errorf("reload account: %w", err)
	}

	metrics.EmitAccountCreated(s.metrics, string(role))
	s.logger.InfoContext(ctx, "account created", "username", username, "role", role)
	return created, nil
}

// ChangePasswordRequest represents a password change for one account.
type ChangePasswordRequest struct {
	AccountID       string `json:"-"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate checks the request in the order the form reports problems:
// missing fields, then mismatch, then length.
func (r ChangePasswordRequest) Validate() error {
	if r.NewPassword == "" || r.ConfirmPassword == "" {
		return apperrors.Validation("new password and confirmation are required")
	}
	if r.NewPassword != r.ConfirmPassword {
		return apperrors.Mismatch("confirm_password", "passwords do not match")
	}
	if utf8.RuneCountInString(r.NewPassword) < MinPasswordLength {
		return apperrors.TooShort("password", MinPasswordLength)
	}
	return nil
}

// ChangePassword replaces the password of req.AccountID. Existing sessions stay valid.
func (s *IdentityService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "hash password")
	}

	if updateErr := s.accounts.UpdatePasswordHash(ctx, req.AccountID, hash); updateErr != nil {
		return fmt.Errorf("update password: %w", updateErr)
	}

	s.logger.InfoContext(ctx, "password changed", "account_id", req.AccountID)
	return nil
}

// ListAccounts returns all accounts in creation order.
func (s *IdentityService) ListAccounts(ctx context.Context) ([]domainauth.Account, error) {
	accts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accts, nil
}

// BootstrapAdmin describes the admin account ensured at startup.
type BootstrapAdmin struct {
	Username    string
	Password    string
	DisplayName string
}

// EnsureAdmin creates the bootstrap admin unless an account with that username exists.
func (s *IdentityService) EnsureAdmin(ctx context.Context, in BootstrapAdmin) (*domainauth.Account, error) {
	existing, err := s.accounts.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err == nil {
		return existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("lookup bootstrap admin: %w", err)
	}

	return s.CreateAccount(ctx, CreateAccountRequest{
		Username:    in.Username,
		Password:    in.Password,
		DisplayName: in.DisplayName,
		Role:        domainauth.RoleAdmin,
	})
}
