package providers

import (
	"github.com/samber/do/v2"

	"github.com/recordshopapp/recordshop-server/internal/config"
	"github.com/recordshopapp/recordshop-server/internal/logger"
	"github.com/recordshopapp/recordshop-server/internal/session"
	"github.com/recordshopapp/recordshop-server/internal/store/sqlite"
)

// StoreHandle wraps the catalog store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite catalog store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.CatalogDBPath()
	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog database initialized", "path", dbPath)

	return &StoreHandle{Store: st}, nil
}

// SessionStoreHandle wraps the session store with shutdown capability.
type SessionStoreHandle struct {
	*session.Store
}

// Shutdown implements do.Shutdownable.
func (h *SessionStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideSessionStore provides the Badger-backed session store.
func ProvideSessionStore(i do.Injector) (*SessionStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := cfg.SessionDBPath()
	sessions, err := session.Open(path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Session store initialized", "path", path)

	return &SessionStoreHandle{Store: sessions}, nil
}
