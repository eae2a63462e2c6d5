package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordshopapp/recordshop-server/internal/domain"
	domainerrors "github.com/recordshopapp/recordshop-server/internal/errors"
)

func setupPurchaseTest(t *testing.T) (*AccountService, *AlbumService, *PurchaseService, *domain.Account, *domain.Album) {
	t.Helper()

	accounts, albums, purchases := setupServices(t)
	ctx := context.Background()

	account, err := accounts.Create(ctx, CreateAccountRequest{
		Name: "Alice", Email: "alice@example.com", Password: "SecurePassword123",
	})
	require.NoError(t, err)

	album, err := albums.Create(ctx, CreateAlbumRequest{
		Title: "Blue Train", Performer: "John Coltrane", Cost: 1500,
	})
	require.NoError(t, err)

	return accounts, albums, purchases, account, album
}

func TestPurchaseService_Create(t *testing.T) {
	accounts, albums, purchases, account, album := setupPurchaseTest(t)
	ctx := context.Background()

	purchase, err := purchases.Create(ctx, CreatePurchaseRequest{
		AccountID: account.ID,
		AlbumID:   album.ID,
	})
	require.NoError(t, err)

	// Both aggregate effects land with the purchase.
	gotAlbum, err := albums.Get(ctx, album.ID)
	require.NoError(t, err)
	require.NotNil(t, gotAlbum.LastPurchasedAt)
	assert.True(t, gotAlbum.LastPurchasedAt.Equal(purchase.CreatedAt))
	assert.Equal(t, account.ID, gotAlbum.LastPurchasedBy)

	gotAccount, err := accounts.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, gotAccount.TotalPurchases)
}

func TestPurchaseService_Create_CounterExactness(t *testing.T) {
	accounts, _, purchases, account, album := setupPurchaseTest(t)
	ctx := context.Background()

	const n = 7
	for range n {
		_, err := purchases.Create(ctx, CreatePurchaseRequest{
			AccountID: account.ID,
			AlbumID:   album.ID,
		})
		require.NoError(t, err)
	}

	gotAccount, err := accounts.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, gotAccount.TotalPurchases)
}

func TestPurchaseService_Create_MissingAlbum(t *testing.T) {
	accounts, _, purchases, account, _ := setupPurchaseTest(t)
	ctx := context.Background()

	_, err := purchases.Create(ctx, CreatePurchaseRequest{
		AccountID: account.ID,
		AlbumID:   "alb_missing",
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// No partial effect: the counter did not move.
	gotAccount, err := accounts.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.Zero(t, gotAccount.TotalPurchases)

	all, err := purchases.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPurchaseService_Create_MissingAccount(t *testing.T) {
	_, albums, purchases, _, album := setupPurchaseTest(t)
	ctx := context.Background()

	_, err := purchases.Create(ctx, CreatePurchaseRequest{
		AccountID: "acct_missing",
		AlbumID:   album.ID,
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	gotAlbum, err := albums.Get(ctx, album.ID)
	require.NoError(t, err)
	assert.Nil(t, gotAlbum.LastPurchasedAt)
}

func TestPurchaseService_Create_Validation(t *testing.T) {
	_, _, purchases, _, _ := setupPurchaseTest(t)

	_, err := purchases.Create(context.Background(), CreatePurchaseRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestPurchaseService_Update_NoReadjustment(t *testing.T) {
	accounts, _, purchases, account, album := setupPurchaseTest(t)
	ctx := context.Background()

	other, err := accounts.Create(ctx, CreateAccountRequest{
		Name: "Bob", Email: "bob@example.com", Password: "SecurePassword123",
	})
	require.NoError(t, err)

	purchase, err := purchases.Create(ctx, CreatePurchaseRequest{
		AccountID: account.ID,
		AlbumID:   album.ID,
	})
	require.NoError(t, err)

	updated, err := purchases.Update(ctx, purchase.ID, UpdatePurchaseRequest{AccountID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.AccountID)

	// Counters stay where creation left them.
	gotOriginal, err := accounts.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, gotOriginal.TotalPurchases)

	gotOther, err := accounts.Get(ctx, other.ID)
	require.NoError(t, err)
	assert.Zero(t, gotOther.TotalPurchases)
}

func TestPurchaseService_Update_MissingReference(t *testing.T) {
	_, _, purchases, account, album := setupPurchaseTest(t)
	ctx := context.Background()

	purchase, err := purchases.Create(ctx, CreatePurchaseRequest{
		AccountID: account.ID,
		AlbumID:   album.ID,
	})
	require.NoError(t, err)

	missingAccount := "acct_missing"
	_, err = purchases.Update(ctx, purchase.ID, UpdatePurchaseRequest{AccountID: &missingAccount})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	missingAlbum := "alb_missing"
	_, err = purchases.Update(ctx, purchase.ID, UpdatePurchaseRequest{AlbumID: &missingAlbum})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The row keeps its original references.
	got, err := purchases.Get(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.AccountID)
	assert.Equal(t, album.ID, got.AlbumID)
}

func TestPurchaseService_Delete_NoDecrement(t *testing.T) {
	accounts, _, purchases, account, album := setupPurchaseTest(t)
	ctx := context.Background()

	purchase, err := purchases.Create(ctx, CreatePurchaseRequest{
		AccountID: account.ID,
		AlbumID:   album.ID,
	})
	require.NoError(t, err)

	require.NoError(t, purchases.Delete(ctx, purchase.ID))

	_, err = purchases.Get(ctx, purchase.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	gotAccount, err := accounts.Get(ctx, account.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, gotAccount.TotalPurchases)
}
