package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/recordshopapp/recordshop-server/internal/api"
	"github.com/recordshopapp/recordshop-server/internal/config"
	"github.com/recordshopapp/recordshop-server/internal/logger"
	"github.com/recordshopapp/recordshop-server/internal/service"
)

// HTTPServerHandle wraps the API server with Shutdownable.
type HTTPServerHandle struct {
	*api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessionHandle := do.MustInvoke[*SessionStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:      do.MustInvoke[*service.AuthService](i),
		Accounts:  do.MustInvoke[*service.AccountService](i),
		Albums:    do.MustInvoke[*service.AlbumService](i),
		Purchases: do.MustInvoke[*service.PurchaseService](i),
	}

	server := api.NewServer(cfg, storeHandle.Store, sessionHandle.Store, services, log.Logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("HTTP server stopped", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: server}, nil
}
