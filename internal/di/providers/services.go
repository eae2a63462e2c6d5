package providers

import (
	"github.com/samber/do/v2"

	"github.com/recordshopapp/recordshop-server/internal/config"
	"github.com/recordshopapp/recordshop-server/internal/logger"
	"github.com/recordshopapp/recordshop-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessionHandle := do.MustInvoke[*SessionStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, sessionHandle.Store, cfg.Auth, log.Logger), nil
}

// ProvideAccountService provides the account service.
func ProvideAccountService(i do.Injector) (*service.AccountService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessionHandle := do.MustInvoke[*SessionStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAccountService(storeHandle.Store, sessionHandle.Store, log.Logger), nil
}

// ProvideAlbumService provides the album catalog service.
func ProvideAlbumService(i do.Injector) (*service.AlbumService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAlbumService(storeHandle.Store, log.Logger), nil
}

// ProvidePurchaseService provides the purchase ledger service.
func ProvidePurchaseService(i do.Injector) (*service.PurchaseService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPurchaseService(storeHandle.Store, log.Logger), nil
}
