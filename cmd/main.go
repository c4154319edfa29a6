/*
Package main is the entry point for the SkillSwap signaling server.

It loads configuration, initializes the global logging system, connects to
PostgreSQL and runs migrations, wires the signaling hub and HTTP server, and
gracefully handles operating system interrupt signals (SIGINT, SIGTERM).
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skillswap/signaling/internal/app/db"
	signalcore "github.com/skillswap/signaling/internal/app/signal"
	"github.com/skillswap/signaling/internal/app/store"
	"github.com/skillswap/signaling/internal/configs"
	"github.com/skillswap/signaling/internal/handler"
	"github.com/skillswap/signaling/internal/pkg/logx"
)

func main() {
	// A missing .env file is fine; environment variables take over.
	_ = godotenv.Load()

	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.IsDevelopment())

	logx.Info("Configuration loaded successfully",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"ws_require_token", cfg.WSRequireToken,
	)

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	logx.Info("Database connection pool ready, migrations applied")

	hub := signalcore.NewHub(
		store.NewMessages(pool),
		store.NewNotifications(pool),
		store.NewDirectory(pool),
	)

	deps := &handler.AppDeps{
		Hub:    hub,
		Config: cfg,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Signaling server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
