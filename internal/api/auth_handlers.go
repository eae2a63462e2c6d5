package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recordshopapp/recordshop-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Create account",
		Description: "Creates a new account, issues its bearer token and starts a session. The token is mirrored into the Authorization response header.",
		Tags:        []string{"Authentication"},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Description: "Authenticates an account and starts a session. The account's existing token is reused; a token is only ever generated once.",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/logout",
		Summary:     "Log out",
		Description: "Ends the current session for the named account. The stored token remains valid for the next login unless revoke-on-logout is configured.",
		Tags:        []string{"Authentication"},
	}, s.handleLogout)
}

// === DTOs ===

// SignupRequest is the request body for account signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=100" doc:"Account holder name"`
	Email    string `json:"email" validate:"required,email,max=254" doc:"Account email address"`
	Password string `json:"password" validate:"required,min=8,max=1024" doc:"Account password"`
}

// SignupInput wraps the signup request with client headers for Huma.
type SignupInput struct {
	Body          SignupRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"Account email"`
	Password string `json:"password" validate:"required,max=1024" doc:"Account password"`
}

// LoginInput wraps the login request with client headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LogoutRequest is the request body for logout.
type LogoutRequest struct {
	Email string `json:"email" validate:"required,email,max=254" doc:"Email of the account signing out"`
}

// LogoutInput wraps the logout request for Huma.
type LogoutInput struct {
	Body LogoutRequest
}

// AccountResponse contains sanitized account information.
type AccountResponse struct {
	ID             string    `json:"id" doc:"Account ID"`
	Name           string    `json:"name" doc:"Account holder name"`
	Email          string    `json:"email" doc:"Account email"`
	TotalPurchases int64     `json:"total_purchases" doc:"Lifetime purchase count"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// AuthResponse contains the bearer token and account info.
type AuthResponse struct {
	Token     string          `json:"token" doc:"Opaque bearer token"`
	TokenType string          `json:"token_type" doc:"Token type (Bearer)"`
	Account   AccountResponse `json:"account" doc:"Authenticated account"`
}

// AuthOutput wraps the auth response for Huma. The bearer token is mirrored
// into the Authorization response header and the session rides a cookie.
type AuthOutput struct {
	Authorization string      `header:"Authorization"`
	SetCookie     http.Cookie `header:"Set-Cookie"`
	Body          AuthResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// LogoutOutput wraps the logout response for Huma and clears the session cookie.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      MessageResponse
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*AuthOutput, error) {
	req := service.SignupRequest{
		Name:     input.Body.Name,
		Email:    input.Body.Email,
		Password: input.Body.Password,
		IP:       extractIP(input.XForwardedFor, input.XRealIP),
	}

	result, err := s.services.Auth.Signup(ctx, req)
	if err != nil {
		return nil, err
	}

	return mapAuthResult(result), nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	req := service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		IP:       extractIP(input.XForwardedFor, input.XRealIP),
	}

	result, err := s.services.Auth.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	return mapAuthResult(result), nil
}

func (s *Server) handleLogout(ctx context.Context, input *LogoutInput) (*LogoutOutput, error) {
	req := service.LogoutRequest{Email: input.Body.Email}

	if err := s.services.Auth.Logout(ctx, sessionFromContext(ctx), req); err != nil {
		return nil, err
	}

	return &LogoutOutput{
		SetCookie: expiredSessionCookie(),
		Body:      MessageResponse{Message: "Logged out successfully"},
	}, nil
}

// mapAuthResult converts a service auth result to the API response shape.
func mapAuthResult(result *service.AuthResult) *AuthOutput {
	return &AuthOutput{
		Authorization: "Bearer " + result.Token,
		SetCookie:     newSessionCookie(result.Session),
		Body: AuthResponse{
			Token:     result.Token,
			TokenType: "Bearer",
			Account:   mapAccount(result.Account),
		},
	}
}
