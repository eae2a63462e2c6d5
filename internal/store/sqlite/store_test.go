package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recordshopapp/recordshop-server/internal/domain"
	"github.com/recordshopapp/recordshop-server/internal/id"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func newTestAccount(t *testing.T, email string) *domain.Account {
	t.Helper()

	account := &domain.Account{
		ID:           id.MustGenerate("acct"),
		Name:         "Test Listener",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
	}
	account.InitTimestamps()
	return account
}

func newTestAlbum(t *testing.T, title string) *domain.Album {
	t.Helper()

	album := &domain.Album{
		ID:        id.MustGenerate("alb"),
		Title:     title,
		Performer: "The Test Pressings",
		Cost:      1500,
	}
	album.InitTimestamps()
	return album
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	require.NoError(t, err)
	require.Equal(t, "wal", journalMode)

	for _, table := range []string{"accounts", "albums", "purchases"} {
		var name string
		err := s.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`,
			table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestOpenIdempotent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path, logger)
	require.NoError(t, err)

	account := newTestAccount(t, "keep@example.com")
	require.NoError(t, s1.CreateAccount(context.Background(), account))
	require.NoError(t, s1.Close())

	// Reopening runs the schema again; existing data must survive.
	s2, err := Open(path, logger)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, account.Email, got.Email)
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	parsed, err := parseTime(formatTime(now))
	require.NoError(t, err)
	require.True(t, now.Equal(parsed))
}

func TestTimeEncodingSortsChronologically(t *testing.T) {
	// Stored timestamps are compared as TEXT by the marker guard and every
	// ORDER BY, so the encoding must sort in time order. Trailing-zero
	// fractions are the hostile case.
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	times := []time.Time{
		base,
		base.Add(100 * time.Millisecond),
		base.Add(120 * time.Millisecond),
		base.Add(200 * time.Millisecond),
		base.Add(1 * time.Second),
	}

	for i := 1; i < len(times); i++ {
		earlier := formatTime(times[i-1])
		later := formatTime(times[i])
		require.Less(t, earlier, later,
			"%v must encode below %v", times[i-1], times[i])
	}
}
