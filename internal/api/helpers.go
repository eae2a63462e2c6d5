package api

import (
	"strings"

	"github.com/recordshopapp/recordshop-server/internal/domain"
)

// extractIP returns the client IP from proxy headers. X-Forwarded-For may
// hold a chain; the first entry is the originating client.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		if idx := strings.Index(xForwardedFor, ","); idx >= 0 {
			return strings.TrimSpace(xForwardedFor[:idx])
		}
		return strings.TrimSpace(xForwardedFor)
	}
	return xRealIP
}

// mapAccount converts a domain account to the sanitized API response shape.
// The password hash and token never leave through a body.
func mapAccount(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		Name:           account.Name,
		Email:          account.Email,
		TotalPurchases: account.TotalPurchases,
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}

// mapAlbum converts a domain album to the API response shape.
func mapAlbum(album *domain.Album) AlbumResponse {
	return AlbumResponse{
		ID:              album.ID,
		Title:           album.Title,
		Performer:       album.Performer,
		Cost:            album.Cost,
		LastPurchasedAt: album.LastPurchasedAt,
		LastPurchasedBy: album.LastPurchasedBy,
		CreatedAt:       album.CreatedAt,
		UpdatedAt:       album.UpdatedAt,
	}
}

// mapPurchase converts a domain purchase to the API response shape.
func mapPurchase(purchase *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:        purchase.ID,
		AccountID: purchase.AccountID,
		AlbumID:   purchase.AlbumID,
		CreatedAt: purchase.CreatedAt,
		UpdatedAt: purchase.UpdatedAt,
	}
}
