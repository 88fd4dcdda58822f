package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sifan077/tinyurl/internal/app/service"
	inthttp "github.com/sifan077/tinyurl/internal/http/handler"
	"github.com/sifan077/tinyurl/internal/http/middleware"
	"go.uber.org/zap"
)

// Dependencies bundles infrastructure dependencies required by the HTTP server.
type Dependencies struct {
	Logger   *zap.Logger
	Postgres *pgxpool.Pool
	Links    service.LinkService
	BaseURL  string
	Version  string
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "tinyurl",
		DisableStartupMessage: true,
	})

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerMiddleware()
	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerMiddleware() {
	s.app.Use(
		middleware.RequestID(),
		middleware.Logger(s.deps.Logger),
		middleware.Recovery(s.deps.Logger),
		middleware.Metrics(),
		helmet.New(),
		middleware.CORS(),
	)
}

func (s *Server) registerRoutes() {
	apiHandler := inthttp.NewAPIHandler(inthttp.APIDeps{
		Logger:      s.deps.Logger,
		LinkService: s.deps.Links,
		BaseURL:     s.deps.BaseURL,
	})
	apiHandler.Register(s.app)

	redirectHandler := inthttp.NewRedirectHandler(inthttp.RedirectDeps{
		Logger:      s.deps.Logger,
		LinkService: s.deps.Links,
		Version:     s.deps.Version,
		Ready:       s.ready,
	})
	redirectHandler.Register(s.app)
}

func (s *Server) ready(ctx context.Context) error {
	if s.deps.Postgres == nil {
		return nil
	}
	return s.deps.Postgres.Ping(ctx)
}
