package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/recordshopapp/recordshop-server/internal/auth"
	"github.com/recordshopapp/recordshop-server/internal/domain"
	domainerrors "github.com/recordshopapp/recordshop-server/internal/errors"
	"github.com/recordshopapp/recordshop-server/internal/id"
	"github.com/recordshopapp/recordshop-server/internal/session"
	"github.com/recordshopapp/recordshop-server/internal/store"
)

// AccountService provides plain CRUD over accounts, separate from the
// signup/login flow in AuthService.
type AccountService struct {
	store    store.Store
	sessions *session.Store
	logger   *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(st store.Store, sessions *session.Store, logger *slog.Logger) *AccountService {
	return &AccountService{store: st, sessions: sessions, logger: logger}
}

// CreateAccountRequest contains the fields for direct account creation.
type CreateAccountRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// UpdateAccountRequest contains the editable account fields. A nil field is
// left unchanged; an empty password keeps the current one.
type UpdateAccountRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=1024"`
}

// Create makes an account directly. Like signup, the bearer token is issued
// at creation time, but no session is started.
func (s *AccountService) Create(ctx context.Context, req CreateAccountRequest) (*domain.Account, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

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

	// Issue the token immediately, mirroring signup. Collisions are
	// vanishingly rare; one retry pass is handled by the claim loop in
	// AuthService when the account logs in.
	token, err := auth.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if stored, err := s.store.ClaimAuthToken(ctx, account.ID, token); err == nil {
		account.AuthToken = stored
	} else if !errors.Is(err, store.ErrAlreadyExists) {
		return nil, fmt.Errorf("claim token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("account created", "account_id", account.ID)
	}

	return account, nil
}

// Get returns one account by ID.
func (s *AccountService) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, domainerrors.NotFound("account " + accountID + " not found")
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return account, nil
}

// List returns all accounts ordered by creation time.
func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Update edits account fields. The stored token and purchase counter are not
// client-editable.
func (s *AccountService) Update(ctx context.Context, accountID string, req UpdateAccountRequest) (*domain.Account, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	account, err := s.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Email != nil {
		account.Email = *req.Email
	}
	if req.Password != nil {
		passwordHash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = passwordHash
	}
	account.Touch()

	if err := s.store.UpdateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, domainerrors.NotFound("account " + accountID + " not found")
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	return account, nil
}

// Delete removes an account and ends its sessions. Its purchases remain as
// historical records.
func (s *AccountService) Delete(ctx context.Context, accountID string) error {
	if err := s.store.DeleteAccount(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return domainerrors.NotFound("account " + accountID + " not found")
		}
		return fmt.Errorf("delete account: %w", err)
	}

	if err := s.sessions.DeleteForAccount(ctx, accountID); err != nil {
		return fmt.Errorf("end account sessions: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("account deleted", "account_id", accountID)
	}

	return nil
}
