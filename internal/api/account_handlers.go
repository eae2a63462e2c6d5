package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recordshopapp/recordshop-server/internal/service"
)

func (s *Server) registerAccountRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createAccount",
		Method:      http.MethodPost,
		Path:        "/api/v1/accounts",
		Summary:     "Create account",
		Description: "Creates an account directly. The password is hashed and a bearer token is issued immediately, but no session is started; use login to sign in.",
		Tags:        []string{"Accounts"},
	}, s.handleCreateAccount)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAccounts",
		Method:      http.MethodGet,
		Path:        "/api/v1/accounts",
		Summary:     "List accounts",
		Tags:        []string{"Accounts"},
	}, s.handleListAccounts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAccount",
		Method:      http.MethodGet,
		Path:        "/api/v1/accounts/{id}",
		Summary:     "Get account",
		Tags:        []string{"Accounts"},
	}, s.handleGetAccount)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAccount",
		Method:      http.MethodPatch,
		Path:        "/api/v1/accounts/{id}",
		Summary:     "Update account",
		Tags:        []string{"Accounts"},
	}, s.handleUpdateAccount)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAccount",
		Method:      http.MethodDelete,
		Path:        "/api/v1/accounts/{id}",
		Summary:     "Delete account",
		Description: "Removes the account record and ends its sessions. Past purchases keep their reference to the deleted ID.",
		Tags:        []string{"Accounts"},
	}, s.handleDeleteAccount)
}

// === DTOs ===

// CreateAccountRequest is the request body for direct account creation.
type CreateAccountRequest struct {
	Name     string `json:"name" validate:"required,max=100" doc:"Account holder name"`
	Email    string `json:"email" validate:"required,email,max=254" doc:"Account email address"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"Account password"`
}

// CreateAccountInput wraps the create request for Huma.
type CreateAccountInput struct {
	Body CreateAccountRequest
}

// UpdateAccountRequest is the request body for account updates.
// Absent fields are left untouched.
type UpdateAccountRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"New account holder name"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=254" doc:"New email address"`
}

// UpdateAccountInput wraps the update request for Huma.
type UpdateAccountInput struct {
	ID   string `path:"id" doc:"Account ID"`
	Body UpdateAccountRequest
}

// AccountIDInput identifies an account by path parameter.
type AccountIDInput struct {
	ID string `path:"id" doc:"Account ID"`
}

// AccountOutput wraps a single account response for Huma.
type AccountOutput struct {
	Body AccountResponse
}

// AccountListOutput wraps an account list response for Huma.
type AccountListOutput struct {
	Body []AccountResponse
}

// MessageOutput wraps a simple message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleCreateAccount(ctx context.Context, input *CreateAccountInput) (*AccountOutput, error) {
	account, err := s.services.Accounts.Create(ctx, service.CreateAccountRequest{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AccountOutput{Body: mapAccount(account)}, nil
}

func (s *Server) handleListAccounts(ctx context.Context, _ *struct{}) (*AccountListOutput, error) {
	accounts, err := s.services.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, mapAccount(account))
	}

	return &AccountListOutput{Body: out}, nil
}

func (s *Server) handleGetAccount(ctx context.Context, input *AccountIDInput) (*AccountOutput, error) {
	account, err := s.services.Accounts.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &AccountOutput{Body: mapAccount(account)}, nil
}

func (s *Server) handleUpdateAccount(ctx context.Context, input *UpdateAccountInput) (*AccountOutput, error) {
	account, err := s.services.Accounts.Update(ctx, input.ID, service.UpdateAccountRequest{
		Name:  input.Body.Name,
		Email: input.Body.Email,
	})
	if err != nil {
		return nil, err
	}

	return &AccountOutput{Body: mapAccount(account)}, nil
}

func (s *Server) handleDeleteAccount(ctx context.Context, input *AccountIDInput) (*MessageOutput, error) {
	if err := s.services.Accounts.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Account deleted"}}, nil
}
