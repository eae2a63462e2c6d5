package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/recordshopapp/recordshop-server/internal/errors"
)

func TestAlbumService_Create(t *testing.T) {
	_, albums, _ := setupServices(t)
	ctx := context.Background()

	album, err := albums.Create(ctx, CreateAlbumRequest{
		Title:     "Blue Train",
		Performer: "John Coltrane",
		Cost:      1500,
	})
	require.NoError(t, err)

	assert.Equal(t, "Blue Train", album.Title)
	assert.Nil(t, album.LastPurchasedAt)
	assert.Empty(t, album.LastPurchasedBy)
}

func TestAlbumService_Create_Validation(t *testing.T) {
	_, albums, _ := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateAlbumRequest
	}{
		{"missing title", CreateAlbumRequest{Performer: "P", Cost: 100}},
		{"missing performer", CreateAlbumRequest{Title: "T", Cost: 100}},
		{"zero cost", CreateAlbumRequest{Title: "T", Performer: "P", Cost: 0}},
		{"negative cost", CreateAlbumRequest{Title: "T", Performer: "P", Cost: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := albums.Create(ctx, tt.req)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestAlbumService_Update(t *testing.T) {
	_, albums, _ := setupServices(t)
	ctx := context.Background()

	album, err := albums.Create(ctx, CreateAlbumRequest{
		Title: "Blue Train", Performer: "John Coltrane", Cost: 1500,
	})
	require.NoError(t, err)

	newCost := int64(1800)
	updated, err := albums.Update(ctx, album.ID, UpdateAlbumRequest{Cost: &newCost})
	require.NoError(t, err)
	assert.EqualValues(t, 1800, updated.Cost)
	assert.Equal(t, "Blue Train", updated.Title)

	badCost := int64(-1)
	_, err = albums.Update(ctx, album.ID, UpdateAlbumRequest{Cost: &badCost})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = albums.Update(ctx, "alb_missing", UpdateAlbumRequest{Cost: &newCost})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAlbumService_GetListDelete(t *testing.T) {
	_, albums, _ := setupServices(t)
	ctx := context.Background()

	album, err := albums.Create(ctx, CreateAlbumRequest{
		Title: "Blue Train", Performer: "John Coltrane", Cost: 1500,
	})
	require.NoError(t, err)

	got, err := albums.Get(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, album.ID, got.ID)

	all, err := albums.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, albums.Delete(ctx, album.ID))
	_, err = albums.Get(ctx, album.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, albums.Delete(ctx, album.ID), domainerrors.ErrNotFound)
}
