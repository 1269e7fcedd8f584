package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tokenfactory/internal/api"
	"tokenfactory/internal/auth"
	"tokenfactory/internal/config"
	"tokenfactory/internal/factory"
	"tokenfactory/internal/host"
	"tokenfactory/internal/retry"

	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("🌟 Starting Token Factory...")

	// 1. Load configuration
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// 2. Configure logger
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Configuration loaded",
		"network", cfg.NetworkPassphrase,
		"auth_mode", cfg.AuthMode,
		"log_level", cfg.LogLevel,
	)

	// 3. Initialize the contract storage host
	ctx := context.Background()
	contractHost, err := buildHost(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage host: %v", err)
	}
	defer contractHost.Close()

	// 4. Pick the authorization oracle
	var authorizer auth.Authorizer
	switch cfg.AuthMode {
	case config.AuthModeAllowAll:
		slog.Warn("Authorization disabled, every caller is granted")
		authorizer = auth.NewAllowAllAuthorizer()
	default:
		authorizer = auth.NewSignatureAuthorizer()
	}

	// 5. Create the factory and the API server
	f := factory.New(contractHost, authorizer, cfg.NetworkPassphrase)
	server := api.NewServer(cfg.APIPort, f, contractHost)

	if err := server.Start(); err != nil {
		log.Fatalf("❌ Failed to start API server: %v", err)
	}

	// 6. Wait for interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Warn("Interrupt received, shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error stopping API server", "error", err)
	}

	slog.Info("Token Factory stopped")
}

// buildHost connects to Postgres when DATABASE_URL is set, retrying while the
// database comes up, and falls back to the in-memory host otherwise.
func buildHost(ctx context.Context, cfg *config.Config) (host.Host, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("No DATABASE_URL set, using in-memory host")
		return host.NewMemoryHost(), nil
	}

	strategy := retry.NewStrategy(retry.LoadConfig())

	var pg *host.PostgresHost
	err := strategy.Execute(ctx, func() error {
		var connErr error
		pg, connErr = host.NewPostgresHost(ctx, cfg.DatabaseURL)
		return connErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pg.EnsureSchema(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	slog.Info("Database connected successfully")
	return pg, nil
}
