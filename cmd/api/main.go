// Package main provides the entry point for the record shop server.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/recordshopapp/recordshop-server/internal/di"
	"github.com/recordshopapp/recordshop-server/internal/di/providers"
	"github.com/recordshopapp/recordshop-server/internal/logger"
)

func main() {
	injector := di.NewContainer()

	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The DI container shuts services down in reverse dependency order.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// Stores use wrapper handles, close them explicitly last.
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close catalog database", "error", err)
		}
	}
	if sessionHandle, err := do.Invoke[*providers.SessionStoreHandle](injector); err == nil {
		if err := sessionHandle.Shutdown(); err != nil {
			log.Error("Failed to close session store", "error", err)
		}
	}

	log.Info("Closing time, every new beginning...")
}
