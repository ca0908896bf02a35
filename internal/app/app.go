// Package app собирает зависимости приложения и управляет жизненным циклом HTTP-сервера.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/cabinconnect/internal/cache"
	"github.com/magabrotheeeer/cabinconnect/internal/config"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/jwt"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/smtp"
	"github.com/magabrotheeeer/cabinconnect/internal/migrations"
	authservice "github.com/magabrotheeeer/cabinconnect/internal/services/auth"
	orderservice "github.com/magabrotheeeer/cabinconnect/internal/services/order"
	senderservice "github.com/magabrotheeeer/cabinconnect/internal/services/sender"
	"github.com/magabrotheeeer/cabinconnect/internal/storage/repository"
)

// App объединяет HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	tokens *cache.TokenStore
}

// New инициализирует хранилище, применяет миграции и собирает все сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	tokenStore, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(transport, cfg.FrontendBaseURL, logger)
	authService := authservice.NewAuthService(db, jwtMaker, tokenStore, senderService, logger)
	orderService := orderservice.NewOrderService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authService, orderService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		tokens: tokenStore,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его gracefully при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		_ = a.tokens.Db.Close()
		return err
	}
}
