package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/logitrack/clients/pkg/apiclient"
	"github.com/logitrack/clients/pkg/logging"
	"github.com/logitrack/clients/pkg/store"
	"github.com/logitrack/clients/web/internal/config"
	"github.com/logitrack/clients/web/internal/httpserver"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	// prototype transport; each request rebinds it to its cookie store
	api := apiclient.New(cfg.APIBaseURL, store.NewMemory())

	if err := httpserver.Register(e, &httpserver.Deps{
		API:    api,
		Logger: logger,
	}); err != nil {
		log.Fatalf("register routes: %v", err)
	}

	go func() {
		logger.Info("web client listening", "addr", cfg.ListenAddr, "api", cfg.APIBaseURL)
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
