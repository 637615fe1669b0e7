package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/deepneed/chatcore/api"
	"github.com/deepneed/chatcore/cache"
	"github.com/deepneed/chatcore/config"
	"github.com/deepneed/chatcore/enhance"
	"github.com/deepneed/chatcore/failover"
	"github.com/deepneed/chatcore/notify"
	"github.com/deepneed/chatcore/policy"
	"github.com/deepneed/chatcore/provider"
	"github.com/deepneed/chatcore/quickreply"
	"github.com/deepneed/chatcore/registry"
	"github.com/deepneed/chatcore/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting chatcore...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)

	// Provider-config persistence is optional: if the store cannot be
	// opened the registry runs on in-memory defaults.
	var configStore registry.ConfigStore
	var sqliteStore *registry.SQLiteConfigStore
	if cfg.DatabaseURL != "" {
		var err error
		sqliteStore, err = registry.NewSQLiteConfigStore(cfg.DatabaseURL)
		if err != nil {
			log.Printf("WARN: provider-config store unavailable, using in-memory defaults: %v", err)
		} else {
			configStore = sqliteStore
			defer sqliteStore.Close()
		}
	}

	reg := registry.New(configStore, registry.Defaults())

	var responseCache *cache.Cache
	if cfg.CacheEnabled {
		responseCache = cache.New(cfg.CacheMaxEntries, cfg.CacheTTL)
	}

	quick, err := quickreply.NewDefault()
	if err != nil {
		log.Fatalf("Failed to load quick-reply rules: %v", err)
	}

	// Initialize policy engine
	ctx := context.Background()
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	executor := failover.New(provider.NewClient(), cfg.RetryAttempts, cfg.CallTimeout, policyEngine)

	sessionStore := store.New()
	notifier := notify.New()
	worker := enhance.New(sessionStore, reg, responseCache, executor, notifier, enhance.Options{
		Delay:   cfg.EnhanceDelay,
		Webhook: notify.NewWebhook(cfg.NotifyWebhookURL),
	})

	sessions := api.New(sessionStore, quick, worker, cfg.QuickReplies)
	h := api.NewHandler(sessions, reg)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chatcore...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	// Let in-flight enhancement tasks settle before exit.
	done := make(chan struct{})
	go func() {
		worker.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Printf("WARN: enhancement tasks still pending at shutdown")
	}

	log.Println("chatcore stopped")
}
