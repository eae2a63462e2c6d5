package sqlite

import (
	"context"
	"database/sql"

	"github.com/recordshopapp/recordshop-server/internal/domain"
	"github.com/recordshopapp/recordshop-server/internal/store"
)

// albumColumns is the ordered list of columns selected in album queries.
// Must match the scan order in scanAlbum.
const albumColumns = `id, created_at, updated_at, title, performer, cost,
	last_purchased_at, last_purchased_by`

// scanAlbum scans a sql.Row (or sql.Rows via its Scan method) into a domain.Album.
func scanAlbum(scanner interface{ Scan(dest ...any) error }) (*domain.Album, error) {
	var a domain.Album

	var (
		createdAt       string
		updatedAt       string
		lastPurchasedAt sql.NullString
		lastPurchasedBy sql.NullString
	)

	err := scanner.Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
		&a.Title,
		&a.Performer,
		&a.Cost,
		&lastPurchasedAt,
		&lastPurchasedBy,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	a.LastPurchasedAt, err = parseNullableTime(lastPurchasedAt)
	if err != nil {
		return nil, err
	}
	if lastPurchasedBy.Valid {
		a.LastPurchasedBy = lastPurchasedBy.String
	}

	return &a, nil
}

// CreateAlbum inserts a new album into the database.
// Returns store.ErrAlreadyExists if the album ID already exists.
func (s *Store) CreateAlbum(ctx context.Context, album *domain.Album) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO albums (
			id, created_at, updated_at, title, performer, cost,
			last_purchased_at, last_purchased_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		album.ID,
		formatTime(album.CreatedAt),
		formatTime(album.UpdatedAt),
		album.Title,
		album.Performer,
		album.Cost,
		nullTimeString(album.LastPurchasedAt),
		nullString(album.LastPurchasedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetAlbum retrieves an album by ID.
// Returns store.ErrAlbumNotFound if the album does not exist.
func (s *Store) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE id = ?`, id)

	a, err := scanAlbum(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrAlbumNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAlbums returns all albums ordered by creation time.
func (s *Store) ListAlbums(ctx context.Context) ([]*domain.Album, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+albumColumns+` FROM albums ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []*domain.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return albums, nil
}

// UpdateAlbum updates the client-editable fields of an album. The
// last-purchased marker columns are deliberately not written here; only the
// purchase ledger mutates them.
// Returns store.ErrAlbumNotFound if the album does not exist.
func (s *Store) UpdateAlbum(ctx context.Context, album *domain.Album) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE albums SET
			updated_at = ?,
			title = ?,
			performer = ?,
			cost = ?
		WHERE id = ?`,
		formatTime(album.UpdatedAt),
		album.Title,
		album.Performer,
		album.Cost,
		album.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlbumNotFound
	}
	return nil
}

// DeleteAlbum removes an album row.
// Returns store.ErrAlbumNotFound if the album does not exist.
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAlbumNotFound
	}
	return nil
}
