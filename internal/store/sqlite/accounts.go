package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/recordshopapp/recordshop-server/internal/domain"
	"github.com/recordshopapp/recordshop-server/internal/store"
)

// accountColumns is the ordered list of columns selected in account queries.
// Must match the scan order in scanAccount.
const accountColumns = `id, created_at, updated_at, name, email,
	password_hash, auth_token, total_purchases`

// scanAccount scans a sql.Row (or sql.Rows via its Scan method) into a domain.Account.
func scanAccount(scanner interface{ Scan(dest ...any) error }) (*domain.Account, error) {
	var a domain.Account

	var (
		createdAt string
		updatedAt string
		authToken sql.NullString
	)

	err := scanner.Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&authToken,
		&a.TotalPurchases,
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

	if authToken.Valid {
		a.AuthToken = authToken.String
	}

	return &a, nil
}

// CreateAccount inserts a new account into the database.
// Returns store.ErrAlreadyExists if the account ID or auth token already exists.
func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) error {
	emailLower := strings.ToLower(strings.TrimSpace(account.Email))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (
			id, created_at, updated_at, name, email, email_lower,
			password_hash, auth_token, total_purchases
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		formatTime(account.CreatedAt),
		formatTime(account.UpdatedAt),
		account.Name,
		account.Email,
		emailLower,
		account.PasswordHash,
		nullString(account.AuthToken),
		account.TotalPurchases,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetAccount retrieves an account by ID.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *Store) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetAccountByEmail retrieves an account by lowercased email. If several
// accounts share an address the earliest-created one is returned.
// Returns store.ErrAccountNotFound if no account matches.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	lower := strings.ToLower(strings.TrimSpace(email))
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email_lower = ?
		ORDER BY created_at ASC LIMIT 1`, lower)

	a, err := scanAccount(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAccounts returns all accounts ordered by creation time.
func (s *Store) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount performs a full row update on an existing account.
// The auth token and purchase counter are written as-is; callers that only
// touch profile fields must load the account first.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *Store) UpdateAccount(ctx context.Context, account *domain.Account) error {
	emailLower := strings.ToLower(strings.TrimSpace(account.Email))

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET
			created_at = ?,
			updated_at = ?,
			name = ?,
			email = ?,
			email_lower = ?,
			password_hash = ?,
			auth_token = ?,
			total_purchases = ?
		WHERE id = ?`,
		formatTime(account.CreatedAt),
		formatTime(account.UpdatedAt),
		account.Name,
		account.Email,
		emailLower,
		account.PasswordHash,
		nullString(account.AuthToken),
		account.TotalPurchases,
		account.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes an account row.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
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
	return nil
}

// ClaimAuthToken stores token on the account only if no token is set yet, and
// returns whichever token ended up stored. Two concurrent first logins race on
// the conditional update; the loser reads back and returns the winner's token
// instead of overwriting it, preserving the uniqueness invariant.
func (s *Store) ClaimAuthToken(ctx context.Context, accountID, token string) (string, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET auth_token = ?
		WHERE id = ? AND auth_token IS NULL`,
		token, accountID)
	if err != nil {
		if isUniqueViolation(err) {
			// Token collides with another account's token.
			return "", store.ErrAlreadyExists
		}
		return "", err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 1 {
		return token, nil
	}

	// Either the account is gone or another claim already won. Read back.
	var stored sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT auth_token FROM accounts WHERE id = ?`, accountID).Scan(&stored)
	if err == sql.ErrNoRows {
		return "", store.ErrAccountNotFound
	}
	if err != nil {
		return "", err
	}
	if !stored.Valid || stored.String == "" {
		return "", fmt.Errorf("auth token claim for account %s lost without a winner", accountID)
	}
	return stored.String, nil
}

// ClearAuthToken removes the stored auth token value from the account.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *Store) ClearAuthToken(ctx context.Context, accountID string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET auth_token = NULL WHERE id = ?`, accountID)
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
	return nil
}
