// Package session provides Badger-backed storage for signed-in sessions.
package session

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/recordshopapp/recordshop-server/internal/domain"
)

const (
	sessionPrefix          = "session:"
	sessionByAccountPrefix = "idx:sessions:account:" // For listing account sessions
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a session exists but has expired.
	ErrExpired = errors.New("session expired")
)

// Store wraps a Badger database holding sessions.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens the session database at the given path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logging
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create stores a new session.
func (s *Store) Create(_ context.Context, session *domain.Session) error {
	key := []byte(sessionPrefix + session.ID)
	accountIndexKey := []byte(sessionByAccountPrefix + session.AccountID + ":" + session.ID)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("session %s already exists", session.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}

		// Account index for listing and bulk deletion
		return txn.Set(accountIndexKey, []byte{})
	})
}

// Get retrieves a session by ID. Expired sessions are reported as such but
// not removed; DeleteExpired handles cleanup.
func (s *Store) Get(_ context.Context, id string) (*domain.Session, error) {
	key := []byte(sessionPrefix + id)

	var session domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.IsExpired() {
		return nil, ErrExpired
	}

	return &session, nil
}

// Save rewrites an existing session, typically after Touch.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	key := []byte(sessionPrefix + session.ID)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete removes a session (logout). Deleting a missing session is not an
// error.
func (s *Store) Delete(_ context.Context, id string) error {
	key := []byte(sessionPrefix + id)

	// Read the session first to clean up the account index, even if expired.
	var session domain.Session
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Already gone
		}
		return fmt.Errorf("get session for deletion: %w", err)
	}

	accountIndexKey := []byte(sessionByAccountPrefix + session.AccountID + ":" + id)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(key); err != nil {
			return err
		}
		if err := txn.Delete(accountIndexKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
}

// ListForAccount returns all live sessions for an account.
func (s *Store) ListForAccount(ctx context.Context, accountID string) ([]*domain.Session, error) {
	prefix := []byte(sessionByAccountPrefix + accountID + ":")
	var sessions []*domain.Session

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false // We only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			// Key format: idx:sessions:account:accountID:sessionID
			key := string(it.Item().Key())
			parts := strings.Split(key, ":")
			if len(parts) < 5 {
				continue
			}
			sessionID := parts[4]

			session, err := s.Get(ctx, sessionID)
			if err != nil {
				if errors.Is(err, ErrExpired) || errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}

			sessions = append(sessions, session)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list account sessions: %w", err)
	}

	return sessions, nil
}

// DeleteForAccount removes every session belonging to an account. Used when
// an account is deleted or its stored token is revoked.
func (s *Store) DeleteForAccount(ctx context.Context, accountID string) error {
	sessions, err := s.ListForAccount(ctx, accountID)
	if err != nil {
		return fmt.Errorf("list sessions for deletion: %w", err)
	}

	for _, session := range sessions {
		if err := s.Delete(ctx, session.ID); err != nil {
			return fmt.Errorf("delete session %s: %w", session.ID, err)
		}
	}

	return nil
}

// DeleteExpired removes all expired sessions. Meant to run periodically.
func (s *Store) DeleteExpired(ctx context.Context) (int, error) {
	prefix := []byte(sessionPrefix)
	var expiredIDs []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var session domain.Session
				if err := json.Unmarshal(val, &session); err != nil {
					return err
				}
				if session.IsExpired() {
					expiredIDs = append(expiredIDs, session.ID)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan expired sessions: %w", err)
	}

	for _, id := range expiredIDs {
		if err := s.Delete(ctx, id); err != nil {
			return 0, fmt.Errorf("delete expired session %s: %w", id, err)
		}
	}

	if s.logger != nil && len(expiredIDs) > 0 {
		s.logger.Info("removed expired sessions", "count", len(expiredIDs))
	}

	return len(expiredIDs), nil
}
