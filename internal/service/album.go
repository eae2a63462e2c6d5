package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/recordshopapp/recordshop-server/internal/domain"
	domainerrors "github.com/recordshopapp/recordshop-server/internal/errors"
	"github.com/recordshopapp/recordshop-server/internal/id"
	"github.com/recordshopapp/recordshop-server/internal/store"
)

// AlbumService provides CRUD over the album catalog. The last-purchased
// marker fields are read-only here; only purchases move them.
type AlbumService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAlbumService creates a new album service.
func NewAlbumService(st store.Store, logger *slog.Logger) *AlbumService {
	return &AlbumService{store: st, logger: logger}
}

// CreateAlbumRequest contains the fields for a new album.
type CreateAlbumRequest struct {
	Title     string `json:"title" validate:"required"`
	Performer string `json:"performer" validate:"required"`
	Cost      int64  `json:"cost" validate:"required,gt=0"`
}

// UpdateAlbumRequest contains the editable album fields.
type UpdateAlbumRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Performer *string `json:"performer,omitempty" validate:"omitempty,min=1"`
	Cost      *int64  `json:"cost,omitempty" validate:"omitempty,gt=0"`
}

// Create adds an album to the catalog.
func (s *AlbumService) Create(ctx context.Context, req CreateAlbumRequest) (*domain.Album, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	albumID, err := id.Generate("alb")
	if err != nil {
		return nil, fmt.Errorf("generate album ID: %w", err)
	}

	album := &domain.Album{
		ID:        albumID,
		Title:     req.Title,
		Performer: req.Performer,
		Cost:      req.Cost,
	}
	album.InitTimestamps()

	if err := s.store.CreateAlbum(ctx, album); err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("album created", "album_id", album.ID, "title", album.Title)
	}

	return album, nil
}

// Get returns one album by ID.
func (s *AlbumService) Get(ctx context.Context, albumID string) (*domain.Album, error) {
	album, err := s.store.GetAlbum(ctx, albumID)
	if err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			return nil, domainerrors.NotFound("album " + albumID + " not found")
		}
		return nil, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

// List returns the whole catalog ordered by creation time.
func (s *AlbumService) List(ctx context.Context) ([]*domain.Album, error) {
	albums, err := s.store.ListAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	return albums, nil
}

// Update edits album fields. Purchase markers are untouched.
func (s *AlbumService) Update(ctx context.Context, albumID string, req UpdateAlbumRequest) (*domain.Album, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	album, err := s.Get(ctx, albumID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		album.Title = *req.Title
	}
	if req.Performer != nil {
		album.Performer = *req.Performer
	}
	if req.Cost != nil {
		album.Cost = *req.Cost
	}
	album.Touch()

	if err := s.store.UpdateAlbum(ctx, album); err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			return nil, domainerrors.NotFound("album " + albumID + " not found")
		}
		return nil, fmt.Errorf("update album: %w", err)
	}

	return album, nil
}

// Delete removes an album from the catalog.
func (s *AlbumService) Delete(ctx context.Context, albumID string) error {
	if err := s.store.DeleteAlbum(ctx, albumID); err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			return domainerrors.NotFound("album " + albumID + " not found")
		}
		return fmt.Errorf("delete album: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("album deleted", "album_id", albumID)
	}

	return nil
}
