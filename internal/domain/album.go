package domain

import "time"

// Album represents a record in the catalog.
type Album struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title     string `json:"title"`
	Performer string `json:"performer"`

	// Cost is the album price in the shop's smallest currency unit.
	// Always strictly positive.
	Cost int64 `json:"cost"`

	// LastPurchasedAt and LastPurchasedBy mirror the most recently created
	// purchase referencing this album, by creation time. They are maintained
	// exclusively by the purchase ledger, never settable by clients.
	LastPurchasedAt *time.Time `json:"last_purchased_at,omitempty"`
	LastPurchasedBy string     `json:"last_purchased_by,omitempty"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (a *Album) Touch() {
	a.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (a *Album) InitTimestamps() {
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
}
