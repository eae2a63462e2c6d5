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

// PurchaseService records purchases and their ledger effects. Recording is
// all-or-nothing: the purchase row, the album's last-purchased marker and the
// buyer's counter commit in one transaction inside the store.
type PurchaseService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(st store.Store, logger *slog.Logger) *PurchaseService {
	return &PurchaseService{store: st, logger: logger}
}

// CreatePurchaseRequest names the buyer and the album bought.
type CreatePurchaseRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	AlbumID   string `json:"album_id" validate:"required"`
}

// UpdatePurchaseRequest reassigns purchase references. Ledger effects from
// creation are not re-adjusted.
type UpdatePurchaseRequest struct {
	AccountID *string `json:"account_id,omitempty" validate:"omitempty,min=1"`
	AlbumID   *string `json:"album_id,omitempty" validate:"omitempty,min=1"`
}

// Create records a purchase. On success the album's last-purchased marker
// reflects the latest purchase by creation time and the buyer's counter has
// grown by exactly one; on any failure nothing is recorded.
func (s *PurchaseService) Create(ctx context.Context, req CreatePurchaseRequest) (*domain.Purchase, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	purchaseID, err := id.Generate("pur")
	if err != nil {
		return nil, fmt.Errorf("generate purchase ID: %w", err)
	}

	purchase := &domain.Purchase{
		ID:        purchaseID,
		AccountID: req.AccountID,
		AlbumID:   req.AlbumID,
	}
	purchase.InitTimestamps()

	if err := s.store.CreatePurchase(ctx, purchase); err != nil {
		switch {
		case errors.Is(err, store.ErrAccountNotFound):
			return nil, domainerrors.NotFound("account " + req.AccountID + " not found")
		case errors.Is(err, store.ErrAlbumNotFound):
			return nil, domainerrors.NotFound("album " + req.AlbumID + " not found")
		}
		return nil, fmt.Errorf("record purchase: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("purchase recorded",
			"purchase_id", purchase.ID,
			"account_id", purchase.AccountID,
			"album_id", purchase.AlbumID,
		)
	}

	return purchase, nil
}

// Get returns one purchase by ID.
func (s *PurchaseService) Get(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	purchase, err := s.store.GetPurchase(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, store.ErrPurchaseNotFound) {
			return nil, domainerrors.NotFound("purchase " + purchaseID + " not found")
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return purchase, nil
}

// List returns all purchases ordered by creation time.
func (s *PurchaseService) List(ctx context.Context) ([]*domain.Purchase, error) {
	purchases, err := s.store.ListPurchases(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

// Update rewrites a purchase's references. Counters and markers keep their
// creation-time values; reassignment never re-adjusts aggregates.
func (s *PurchaseService) Update(ctx context.Context, purchaseID string, req UpdatePurchaseRequest) (*domain.Purchase, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	purchase, err := s.Get(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	if req.AccountID != nil {
		purchase.AccountID = *req.AccountID
	}
	if req.AlbumID != nil {
		purchase.AlbumID = *req.AlbumID
	}
	purchase.Touch()

	if err := s.store.UpdatePurchase(ctx, purchase); err != nil {
		switch {
		case errors.Is(err, store.ErrPurchaseNotFound):
			return nil, domainerrors.NotFound("purchase " + purchaseID + " not found")
		case errors.Is(err, store.ErrAccountNotFound):
			return nil, domainerrors.NotFound("account " + purchase.AccountID + " not found")
		case errors.Is(err, store.ErrAlbumNotFound):
			return nil, domainerrors.NotFound("album " + purchase.AlbumID + " not found")
		}
		return nil, fmt.Errorf("update purchase: %w", err)
	}

	return purchase, nil
}

// Delete removes a purchase record. The buyer's counter is never decremented
// and the album marker stays where creation left it.
func (s *PurchaseService) Delete(ctx context.Context, purchaseID string) error {
	if err := s.store.DeletePurchase(ctx, purchaseID); err != nil {
		if errors.Is(err, store.ErrPurchaseNotFound) {
			return domainerrors.NotFound("purchase " + purchaseID + " not found")
		}
		return fmt.Errorf("delete purchase: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("purchase deleted", "purchase_id", purchaseID)
	}

	return nil
}
