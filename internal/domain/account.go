package domain

import "time"

// Account represents a customer account in the shop.
type Account struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name  string `json:"name"`
	Email string `json:"email"`

	// PasswordHash is the Argon2id digest of the account password.
	// Never serialized; plaintext passwords are never stored or compared.
	PasswordHash string `json:"-"`

	// AuthToken is the opaque bearer credential for this account. Empty until
	// the first token issuance; unique across all accounts once set. Logout
	// does not clear it (the session pointer is the actual gate).
	AuthToken string `json:"-"`

	// TotalPurchases counts every purchase ever successfully recorded against
	// this account. It is never decremented, not even on purchase deletion.
	TotalPurchases int64 `json:"total_purchases"`
}

// HasToken returns true once an auth token has been issued for the account.
func (a *Account) HasToken() bool {
	return a.AuthToken != ""
}

// Touch updates the UpdatedAt timestamp to the current time.
func (a *Account) Touch() {
	a.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (a *Account) InitTimestamps() {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
}
