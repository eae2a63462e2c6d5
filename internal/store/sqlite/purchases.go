package sqlite

import (
	"context"
	"database/sql"

	"github.com/recordshopapp/recordshop-server/internal/domain"
	"github.com/recordshopapp/recordshop-server/internal/store"
)

const purchaseColumns = `id, created_at, updated_at, account_id, album_id`

func scanPurchase(scanner interface{ Scan(dest ...any) error }) (*domain.Purchase, error) {
	var p domain.Purchase

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
		&p.AccountID,
		&p.AlbumID,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePurchase records a purchase and applies its ledger effects in a
// single transaction. The album's last-purchased marker only moves forward:
// a purchase with an earlier creation time than the current marker leaves it
// untouched. The buyer's purchase counter is incremented in SQL so
// concurrent purchases never lose an increment. Any failure rolls the whole
// transaction back, leaving no partial effects.
//
// Returns store.ErrAccountNotFound or store.ErrAlbumNotFound when a
// referenced row is missing, and store.ErrAlreadyExists on a duplicate
// purchase ID.
func (s *Store) CreatePurchase(ctx context.Context, purchase *domain.Purchase) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM albums WHERE id = ?`, purchase.AlbumID).Scan(&exists)
	if err == sql.ErrNoRows {
		return store.ErrAlbumNotFound
	}
	if err != nil {
		return err
	}

	createdAt := formatTime(purchase.CreatedAt)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchases (id, created_at, updated_at, account_id, album_id)
		VALUES (?, ?, ?, ?, ?)`,
		purchase.ID,
		createdAt,
		formatTime(purchase.UpdatedAt),
		purchase.AccountID,
		purchase.AlbumID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE albums SET
			last_purchased_at = ?,
			last_purchased_by = ?,
			updated_at = ?
		WHERE id = ?
		AND (last_purchased_at IS NULL OR last_purchased_at <= ?)`,
		createdAt,
		purchase.AccountID,
		createdAt,
		purchase.AlbumID,
		createdAt,
	)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE accounts SET
			total_purchases = total_purchases + 1,
			updated_at = ?
		WHERE id = ?`,
		createdAt,
		purchase.AccountID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAccountNotFound
	}

	return tx.Commit()
}

// GetPurchase retrieves a purchase by ID.
// Returns store.ErrPurchaseNotFound if the purchase does not exist.
func (s *Store) GetPurchase(ctx context.Context, id string) (*domain.Purchase, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = ?`, id)

	p, err := scanPurchase(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPurchases returns all purchases ordered by creation time.
func (s *Store) ListPurchases(ctx context.Context) ([]*domain.Purchase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+purchaseColumns+` FROM purchases ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return purchases, nil
}

// UpdatePurchase rewrites the references on an existing purchase row. Both
// references must resolve, same as at creation. The ledger effects applied at
// creation are not re-adjusted; the counters and markers continue to reflect
// creation-time state.
// Returns store.ErrPurchaseNotFound if the purchase does not exist, and
// store.ErrAccountNotFound / store.ErrAlbumNotFound for a dangling reference.
func (s *Store) UpdatePurchase(ctx context.Context, purchase *domain.Purchase) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM accounts WHERE id = ?`, purchase.AccountID).Scan(&exists)
	if err == sql.ErrNoRows {
		return store.ErrAccountNotFound
	}
	if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM albums WHERE id = ?`, purchase.AlbumID).Scan(&exists)
	if err == sql.ErrNoRows {
		return store.ErrAlbumNotFound
	}
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE purchases SET
			updated_at = ?,
			account_id = ?,
			album_id = ?
		WHERE id = ?`,
		formatTime(purchase.UpdatedAt),
		purchase.AccountID,
		purchase.AlbumID,
		purchase.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrPurchaseNotFound
	}
	return tx.Commit()
}

// DeletePurchase removes a purchase row. Ledger effects from its creation
// are retained; the buyer's counter is never decremented.
// Returns store.ErrPurchaseNotFound if the purchase does not exist.
func (s *Store) DeletePurchase(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrPurchaseNotFound
	}
	return nil
}
