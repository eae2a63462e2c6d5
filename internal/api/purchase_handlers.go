package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recordshopapp/recordshop-server/internal/service"
)

func (s *Server) registerPurchaseRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createPurchase",
		Method:      http.MethodPost,
		Path:        "/api/v1/purchases",
		Summary:     "Record purchase",
		Description: "Records a purchase and applies its ledger effects atomically: the album's last-purchased marker follows the latest purchase by creation time and the buyer's counter grows by one.",
		Tags:        []string{"Purchases"},
	}, s.handleCreatePurchase)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPurchases",
		Method:      http.MethodGet,
		Path:        "/api/v1/purchases",
		Summary:     "List purchases",
		Tags:        []string{"Purchases"},
	}, s.handleListPurchases)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPurchase",
		Method:      http.MethodGet,
		Path:        "/api/v1/purchases/{id}",
		Summary:     "Get purchase",
		Tags:        []string{"Purchases"},
	}, s.handleGetPurchase)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePurchase",
		Method:      http.MethodPatch,
		Path:        "/api/v1/purchases/{id}",
		Summary:     "Reassign purchase",
		Description: "Reassigns the purchase's account or album reference. Aggregates written at creation time are not re-adjusted.",
		Tags:        []string{"Purchases"},
	}, s.handleUpdatePurchase)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePurchase",
		Method:      http.MethodDelete,
		Path:        "/api/v1/purchases/{id}",
		Summary:     "Delete purchase",
		Description: "Removes the purchase record. The buyer's counter is not decremented and the album marker is not recomputed.",
		Tags:        []string{"Purchases"},
	}, s.handleDeletePurchase)
}

// === DTOs ===

// CreatePurchaseRequest is the request body for recording a purchase.
type CreatePurchaseRequest struct {
	AccountID string `json:"account_id" validate:"required" doc:"Buying account ID"`
	AlbumID   string `json:"album_id" validate:"required" doc:"Purchased album ID"`
}

// CreatePurchaseInput wraps the create request for Huma.
type CreatePurchaseInput struct {
	Body CreatePurchaseRequest
}

// UpdatePurchaseRequest is the request body for reassigning a purchase.
type UpdatePurchaseRequest struct {
	AccountID *string `json:"account_id,omitempty" validate:"omitempty,min=1" doc:"New buying account ID"`
	AlbumID   *string `json:"album_id,omitempty" validate:"omitempty,min=1" doc:"New album ID"`
}

// UpdatePurchaseInput wraps the update request for Huma.
type UpdatePurchaseInput struct {
	ID   string `path:"id" doc:"Purchase ID"`
	Body UpdatePurchaseRequest
}

// PurchaseIDInput identifies a purchase by path parameter.
type PurchaseIDInput struct {
	ID string `path:"id" doc:"Purchase ID"`
}

// PurchaseResponse contains purchase information in API responses.
type PurchaseResponse struct {
	ID        string    `json:"id" doc:"Purchase ID"`
	AccountID string    `json:"account_id" doc:"Buying account ID"`
	AlbumID   string    `json:"album_id" doc:"Purchased album ID"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// PurchaseOutput wraps a single purchase response for Huma.
type PurchaseOutput struct {
	Body PurchaseResponse
}

// PurchaseListOutput wraps a purchase list response for Huma.
type PurchaseListOutput struct {
	Body []PurchaseResponse
}

// === Handlers ===

func (s *Server) handleCreatePurchase(ctx context.Context, input *CreatePurchaseInput) (*PurchaseOutput, error) {
	purchase, err := s.services.Purchases.Create(ctx, service.CreatePurchaseRequest{
		AccountID: input.Body.AccountID,
		AlbumID:   input.Body.AlbumID,
	})
	if err != nil {
		return nil, err
	}

	return &PurchaseOutput{Body: mapPurchase(purchase)}, nil
}

func (s *Server) handleListPurchases(ctx context.Context, _ *struct{}) (*PurchaseListOutput, error) {
	purchases, err := s.services.Purchases.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PurchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		out = append(out, mapPurchase(purchase))
	}

	return &PurchaseListOutput{Body: out}, nil
}

func (s *Server) handleGetPurchase(ctx context.Context, input *PurchaseIDInput) (*PurchaseOutput, error) {
	purchase, err := s.services.Purchases.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &PurchaseOutput{Body: mapPurchase(purchase)}, nil
}

func (s *Server) handleUpdatePurchase(ctx context.Context, input *UpdatePurchaseInput) (*PurchaseOutput, error) {
	purchase, err := s.services.Purchases.Update(ctx, input.ID, service.UpdatePurchaseRequest{
		AccountID: input.Body.AccountID,
		AlbumID:   input.Body.AlbumID,
	})
	if err != nil {
		return nil, err
	}

	return &PurchaseOutput{Body: mapPurchase(purchase)}, nil
}

func (s *Server) handleDeletePurchase(ctx context.Context, input *PurchaseIDInput) (*MessageOutput, error) {
	if err := s.services.Purchases.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Purchase deleted"}}, nil
}
