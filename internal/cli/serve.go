package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/housesplit/internal/auth"
	"github.com/mmynk/housesplit/internal/config"
	"github.com/mmynk/housesplit/internal/httpapi"
	"github.com/mmynk/housesplit/internal/service"
	"github.com/mmynk/housesplit/internal/storage/sqlite"
	"github.com/mmynk/housesplit/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logging.Setup(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	api := httpapi.NewServer(
		service.NewLedger(store),
		service.NewAuthService(authenticator, store, jwtManager, slog.Default()),
		service.NewContactService(store),
		jwtManager,
		httpapi.WithCORSOrigin(cfg.CORSOrigin),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(api.Handler(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		return err
	}
	slog.Info("Server stopped")
	return nil
}
