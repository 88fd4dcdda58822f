package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sifan077/tinyurl/internal/app/repository"
	"github.com/sifan077/tinyurl/internal/app/service"
	"github.com/sifan077/tinyurl/internal/app/shortcode"
	"github.com/sifan077/tinyurl/internal/http/view"
	"go.uber.org/zap"
)

// RedirectDeps groups dependencies required by redirect handlers.
type RedirectDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	Version     string
	// Ready reports whether the store is reachable; nil means always ready.
	Ready func(ctx context.Context) error
}

// RedirectHandler implements the public redirect and probe endpoints.
type RedirectHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	version     string
	ready       func(ctx context.Context) error
}

// NewRedirectHandler creates a redirect handler with the provided dependencies.
func NewRedirectHandler(deps RedirectDeps) *RedirectHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedirectHandler{
		logger:      logger,
		linkService: deps.LinkService,
		version:     deps.Version,
		ready:       deps.Ready,
	}
}

// Register wires probe and redirect routes onto the provided router.
// It must run after every fixed route so /:code only catches the rest.
func (h *RedirectHandler) Register(router fiber.Router) {
	router.Get("/healthz", h.Health)
	router.Get("/readyz", h.Ready)
	router.Get("/:code", h.Redirect)
}

// Health reports liveness and the running version.
func (h *RedirectHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":      true,
		"version": h.version,
	})
}

// Ready reports whether the store answers.
func (h *RedirectHandler) Ready(c *fiber.Ctx) error {
	if h.ready != nil {
		if err := h.ready(userContext(c)); err != nil {
			h.logger.Warn("readiness check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"ok": false,
			})
		}
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Redirect handles GET /:code: resolves the code, counts the click and
// answers 302. A miss answers 404 and writes nothing.
func (h *RedirectHandler) Redirect(c *fiber.Ctx) error {
	code := utils.CopyString(c.Params("code"))
	if !shortcode.IsValid(code) {
		return h.notFound(c, code)
	}

	target, err := h.linkService.Resolve(userContext(c), code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return h.notFound(c, code)
		}
		h.logger.Error("link operation failed",
			zap.String("op", "redirect"),
			zap.String("code", code),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).SendString("Server error")
	}

	h.logger.Debug("redirecting short link", zap.String("code", code), zap.String("target", target))
	return c.Redirect(target, fiber.StatusFound)
}

func (h *RedirectHandler) notFound(c *fiber.Ctx, code string) error {
	html, err := view.NotFoundPage(code)
	if err != nil {
		h.logger.Error("failed to render not found page", zap.Error(err))
		return c.Status(fiber.StatusNotFound).SendString("Not found")
	}
	return c.Status(fiber.StatusNotFound).
		Type("html", "utf-8").
		SendString(html)
}
