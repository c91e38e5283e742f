package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saturnino-fabrica-de-software/pontoface/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/pontoface/internal/repository"
)

type Dependencies struct {
	AttendanceRepo repository.AttendanceRepositoryInterface
	SettingsRepo   repository.SettingsRepositoryInterface
	DB             *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "PontoFace API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	attendanceHandler := handler.NewAttendanceHandler(r.deps.AttendanceRepo, r.logger)
	v1.Get("/attendance", attendanceHandler.ListByDate)
	v1.Get("/attendance/:employee_id", attendanceHandler.ListByEmployee)

	settingsHandler := handler.NewSettingsHandler(r.deps.SettingsRepo, r.logger)
	v1.Get("/settings", settingsHandler.Get)
	v1.Put("/settings", settingsHandler.Put)
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}

// ShutdownWithTimeout drains in-flight requests, giving up after d.
func (r *Router) ShutdownWithTimeout(d time.Duration) error {
	return r.app.ShutdownWithTimeout(d)
}

// App expõe o *fiber.App para testes.
func (r *Router) App() *fiber.App {
	return r.app
}
