package app

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/health"
	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/order/create"
	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/order/list"
	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/order/remove"
	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/resident/register"
	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/resident/resend"
	"github.com/magabrotheeeer/cabinconnect/internal/http/handlers/resident/verify"
	"github.com/magabrotheeeer/cabinconnect/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cabinconnect/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/cabinconnect/internal/services/auth"
	orderservice "github.com/magabrotheeeer/cabinconnect/internal/services/order"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	jwtMaker jwt.Maker,
	authService *authservice.AuthService,
	orderService *orderservice.OrderService,
) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Post("/resident/register/", register.New(logger, authService).ServeHTTP)
	r.Post("/resident/verify/{email}/", verify.New(logger, authService).ServeHTTP)
	r.Post("/resident/resend/code/{email}/", resend.New(logger, authService).ServeHTTP)
	r.Post("/token/", token.New(logger, authService).ServeHTTP)
	r.Post("/token/refresh/", refresh.New(logger, authService).ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
		r.Post("/order/snow_shoveling/", create.New(logger, orderService).ServeHTTP)
		r.Get("/snow_shoveling/orders/", list.New(logger, orderService).ServeHTTP)
		r.Delete("/snow_shoveling/order/delete/{id}/", remove.New(logger, orderService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
