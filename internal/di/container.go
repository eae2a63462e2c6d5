// Package di provides dependency injection configuration for the record shop server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/recordshopapp/recordshop-server/internal/config"
	"github.com/recordshopapp/recordshop-server/internal/di/providers"
	"github.com/recordshopapp/recordshop-server/internal/logger"
	"github.com/recordshopapp/recordshop-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSessionStore)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideAccountService)
	do.Provide(injector, providers.ProvideAlbumService)
	do.Provide(injector, providers.ProvidePurchaseService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap invokes every provider so the whole dependency graph comes up,
// or fails fast when any piece cannot initialize.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SessionStoreHandle](injector)

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.AccountService](injector)
	_ = do.MustInvoke[*service.AlbumService](injector)
	_ = do.MustInvoke[*service.PurchaseService](injector)

	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
