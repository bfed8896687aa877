package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"troopsite/cmd/app"
	"troopsite/internal/config"
	handlers "troopsite/internal/handler"
	"troopsite/internal/router"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	app.ConfigureLogging(cfg.Log)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	a := app.New(cfg)
	defer a.Close()

	handler := handlers.NewHandlers(a.Repo, a.Services, a.Sessions, a.DB, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go a.Sessions.Cleanup(ctx, cfg.Session.CleanupInterval)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router.Setup(handler, cfg, a.Sessions),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Starting the server
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":     server.Addr,
			"env":      cfg.Env,
			"storage":  cfg.Storage.Backend,
			"sessions": cfg.Session.Store,
		}).Info("server started")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Server failed: %v", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}
