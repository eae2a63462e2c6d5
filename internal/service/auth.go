package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/recordshopapp/recordshop-server/internal/auth"
	"github.com/recordshopapp/recordshop-server/internal/config"
	"github.com/recordshopapp/recordshop-server/internal/domain"
	domainerrors "github.com/recordshopapp/recordshop-server/internal/errors"
	"github.com/recordshopapp/recordshop-server/internal/id"
	"github.com/recordshopapp/recordshop-server/internal/session"
	"github.com/recordshopapp/recordshop-server/internal/store"
)

// tokenClaimAttempts bounds regeneration when a fresh token collides with
// another account's stored token.
const tokenClaimAttempts = 5

// AuthService handles signup, login, logout and bearer token verification.
type AuthService struct {
	store    store.Store
	sessions *session.Store
	logger   *slog.Logger
	cfg      config.AuthConfig
}

// NewAuthService creates a new authentication service.
func NewAuthService(st store.Store, sessions *session.Store, cfg config.AuthConfig, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:    st,
		sessions: sessions,
		logger:   logger,
		cfg:      cfg,
	}
}

// SignupRequest contains new account registration data.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	IP       string `json:"-"` // Extracted from request by handler
}

// LoginRequest contains account credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"` // Extracted from request by handler
}

// LogoutRequest identifies the account signing out.
type LogoutRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResult contains the signed-in account, its bearer token and the
// session established for the browser.
type AuthResult struct {
	Account *domain.Account
	Token   string
	Session *domain.Session
}

// Signup creates a new account, issues its bearer token and starts a session.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	// Email is a functional lookup key; reject duplicates up front.
	_, err := s.store.GetAccountByEmail(ctx, req.Email)
	if err == nil {
		return nil, domainerrors.AlreadyExists("email already in use")
	}
	if !errors.Is(err, store.ErrAccountNotFound) {
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	accountID, err := id.Generate("acct")
	if err != nil {
		return nil, fmt.Errorf("generate account ID: %w", err)
	}

	account := &domain.Account{
		ID:           accountID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	account.InitTimestamps()

	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	token, err := s.ensureToken(ctx, account)
	if err != nil {
		return nil, err
	}

	sess, err := s.startSession(ctx, account.ID, req.IP)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("account signed up",
			"account_id", account.ID,
			"email", account.Email,
		)
	}

	return &AuthResult{Account: account, Token: token, Session: sess}, nil
}

// Login verifies credentials and starts a session. The stored bearer token is
// reused; a new one is issued only when the account has none yet. Wrong email
// and wrong password return the same error so account existence never leaks.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	account, err := s.store.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	valid, err := auth.VerifyPassword(account.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	token, err := s.ensureToken(ctx, account)
	if err != nil {
		return nil, err
	}

	sess, err := s.startSession(ctx, account.ID, req.IP)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("account logged in", "account_id", account.ID)
	}

	return &AuthResult{Account: account, Token: token, Session: sess}, nil
}

// Logout ends the current session for the named account. The stored bearer
// token stays valid unless revoke-on-logout is configured, in which case the
// token is cleared and every session for the account is ended.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session, req LogoutRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	account, err := s.store.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return domainerrors.NotFound("no account for email " + req.Email)
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	if sess != nil {
		if err := s.sessions.Delete(ctx, sess.ID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}

	if s.cfg.RevokeTokenOnLogout {
		if err := s.store.ClearAuthToken(ctx, account.ID); err != nil {
			return fmt.Errorf("clear auth token: %w", err)
		}
		if err := s.sessions.DeleteForAccount(ctx, account.ID); err != nil {
			return fmt.Errorf("end account sessions: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("account logged out",
			"account_id", account.ID,
			"revoked", s.cfg.RevokeTokenOnLogout,
		)
	}

	return nil
}

// Authenticate resolves the account behind a request. It requires both an
// active session and a bearer token matching, in constant time, the token
// stored on the session's account. Failures are uniform so callers cannot
// distinguish a missing session from a stale token.
func (s *AuthService) Authenticate(ctx context.Context, sess *domain.Session, bearer string) (*domain.Account, error) {
	if sess == nil || bearer == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	account, err := s.store.GetAccount(ctx, sess.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, domainerrors.Unauthorized("authentication required")
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !auth.TokensEqual(bearer, account.AuthToken) {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	return account, nil
}

// ResolveSession loads a live session by ID. Missing or expired sessions
// resolve to nil rather than an error; requests simply proceed signed out.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	return sess, nil
}

// ensureToken returns the account's bearer token, issuing one first if the
// account has none. Issuance races resolve in the store: the loser of a
// concurrent first claim receives the winner's token. A generated token that
// collides with another account's is regenerated.
func (s *AuthService) ensureToken(ctx context.Context, account *domain.Account) (string, error) {
	if account.HasToken() {
		return account.AuthToken, nil
	}

	for range tokenClaimAttempts {
		token, err := auth.GenerateToken()
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}

		stored, err := s.store.ClaimAuthToken(ctx, account.ID, token)
		if err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				continue // Collision with another account's token
			}
			if errors.Is(err, store.ErrAccountNotFound) {
				return "", domainerrors.NotFound("account " + account.ID + " not found")
			}
			return "", fmt.Errorf("claim token: %w", err)
		}

		account.AuthToken = stored
		return stored, nil
	}

	return "", domainerrors.Internal("could not issue a unique token")
}

// startSession creates and persists a session for the account.
func (s *AuthService) startSession(ctx context.Context, accountID, ip string) (*domain.Session, error) {
	sess := domain.NewSession(accountID)
	sess.IPAddress = ip
	if s.cfg.SessionTTL > 0 {
		sess.ExpiresAt = sess.CreatedAt.Add(s.cfg.SessionTTL)
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return sess, nil
}

// TouchSession refreshes a session's last seen time. Best effort; failures
// are logged, not surfaced.
func (s *AuthService) TouchSession(ctx context.Context, sess *domain.Session) {
	if sess == nil {
		return
	}

	sess.LastSeenAt = time.Now()
	if err := s.sessions.Save(ctx, sess); err != nil && s.logger != nil {
		s.logger.Warn("failed to touch session", "session_id", sess.ID, "error", err)
	}
}
