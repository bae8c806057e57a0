package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-admin/docs"
	"github.com/99minutos/user-admin/internal/api/handler"
	"github.com/99minutos/user-admin/internal/api/middleware"
	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Bans   ports.BanService
	Grants ports.GrantService
	Users  ports.UserService
	Auth   ports.AuthService

	JWTSecret string
	// RequireAuth puts the admin routes behind a bearer token with the
	// admin role. /adminLogin and /createUserDoc stay public.
	RequireAuth bool

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handlers.PingFunc

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// Router-local registry; /metrics gathers it together with the default one.
	httpMetrics := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "useradmin",
		Registerer: httpMetrics,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	var adminOnly []echo.MiddlewareFunc
	if deps.RequireAuth {
		adminOnly = append(adminOnly,
			middleware.Auth(deps.JWTSecret),
			middleware.RBAC(domain.RoleAdmin),
		)
	}

	userHandler := handler.NewUserHandler(deps.Bans, deps.Grants, deps.Users)
	authHandler := handler.NewAuthHandler(deps.Auth)

	// --- Public routes ---
	e.POST("/adminLogin", authHandler.AdminLogin)
	e.POST("/createUserDoc", userHandler.CreateUserDoc)

	// --- Admin routes ---
	e.POST("/banUser", userHandler.BanUser, adminOnly...)
	e.POST("/becomeAdmin", userHandler.BecomeAdmin, adminOnly...)
	e.POST("/makeAdmin", userHandler.BecomeAdmin, adminOnly...)
	e.GET("/listAdmins", userHandler.ListAdmins, adminOnly...)
	e.GET("/listUsers", userHandler.ListUsers, adminOnly...)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
