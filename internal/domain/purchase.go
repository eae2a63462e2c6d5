package domain

import "time"

// Purchase records a single sale of an album to an account.
// Immutable once created, except that an edit may reassign its account/album
// references. Reassignment does not re-adjust the aggregates maintained from
// the original references; that gap is deliberate.
type Purchase struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AccountID string `json:"account_id"`
	AlbumID   string `json:"album_id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (p *Purchase) Touch() {
	p.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (p *Purchase) InitTimestamps() {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
}
