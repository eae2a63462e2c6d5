// Package store defines the persistence interface consumed by the service
// layer. The SQLite implementation lives in the sqlite subpackage.
package store

import (
	"context"

	"github.com/recordshopapp/recordshop-server/internal/domain"
)

// Store is the persistence surface for accounts, albums and purchases.
//
// All methods honor the caller's context cancellation and surface unexpected
// driver failures as opaque errors; callers treat those as fatal.
type Store interface {
	// Accounts.
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
	DeleteAccount(ctx context.Context, id string) error

	// ClaimAuthToken stores token on the account if and only if it has no
	// token yet, and returns the token that ended up stored. When a
	// concurrent claim already won, the winner's token is returned instead
	// of overwriting it. Returns ErrAlreadyExists when token collides with
	// another account's token (caller regenerates and retries), and
	// ErrAccountNotFound when the account does not exist.
	ClaimAuthToken(ctx context.Context, accountID, token string) (string, error)

	// ClearAuthToken removes the stored token value from the account.
	// Only used when token revocation on logout is enabled.
	ClearAuthToken(ctx context.Context, accountID string) error

	// Albums.
	CreateAlbum(ctx context.Context, album *domain.Album) error
	GetAlbum(ctx context.Context, id string) (*domain.Album, error)
	ListAlbums(ctx context.Context) ([]*domain.Album, error)
	UpdateAlbum(ctx context.Context, album *domain.Album) error
	DeleteAlbum(ctx context.Context, id string) error

	// CreatePurchase durably records the purchase and applies its ledger
	// effects (album last-purchased marker, account purchase counter) in a
	// single transaction. Either everything commits or nothing does; a
	// purchase never exists with its aggregate effects missing. Returns
	// ErrAccountNotFound / ErrAlbumNotFound when a reference is dangling.
	CreatePurchase(ctx context.Context, purchase *domain.Purchase) error
	GetPurchase(ctx context.Context, id string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context) ([]*domain.Purchase, error)

	// UpdatePurchase reassigns the purchase's account/album references.
	// Both references must resolve; dangling ones return ErrAccountNotFound
	// or ErrAlbumNotFound. Prior aggregates are NOT re-adjusted; the marker
	// and counter keep their creation-time values.
	UpdatePurchase(ctx context.Context, purchase *domain.Purchase) error

	// DeletePurchase removes the purchase record. The account counter is
	// not decremented and the album marker is not recomputed.
	DeletePurchase(ctx context.Context, id string) error

	Close() error
}
