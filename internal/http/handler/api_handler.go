package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sifan077/tinyurl/internal/app/model"
	"github.com/sifan077/tinyurl/internal/app/repository"
	"github.com/sifan077/tinyurl/internal/app/service"
	"github.com/sifan077/tinyurl/internal/app/shortcode"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger      *zap.Logger
	LinkService service.LinkService
	BaseURL     string
}

// APIHandler implements the management API endpoints.
type APIHandler struct {
	logger      *zap.Logger
	linkService service.LinkService
	baseURL     string
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger:      logger,
		linkService: deps.LinkService,
		baseURL:     deps.BaseURL,
	}
}

// Register wires API routes onto the provided router. /api/links is an
// alias of /links for older clients.
func (h *APIHandler) Register(router fiber.Router) {
	for _, prefix := range []string{"/links", "/api/links"} {
		links := router.Group(prefix)
		{
			links.Post("/", h.CreateLink)
			links.Get("/", h.ListLinks)
			links.Get("/:code", h.GetLink)
			links.Delete("/:code", h.DeleteLink)
		}
	}
}

// CreateLinkRequest represents the request body for creating a link.
type CreateLinkRequest struct {
	URL  string `json:"url"`
	Code string `json:"code,omitempty"`
}

// LinkResponse is the JSON shape of a link.
type LinkResponse struct {
	Code        string     `json:"code"`
	URL         string     `json:"url"`
	TotalClicks int64      `json:"total_clicks"`
	LastClicked *time.Time `json:"last_clicked"`
	CreatedAt   time.Time  `json:"created_at"`
	ShortURL    string     `json:"short_url"`
}

func (h *APIHandler) toResponse(link *model.Link) LinkResponse {
	return LinkResponse{
		Code:        link.Code,
		URL:         link.URL,
		TotalClicks: link.TotalClicks,
		LastClicked: link.LastClicked,
		CreatedAt:   link.CreatedAt,
		ShortURL:    h.baseURL + "/" + link.Code,
	}
}

// CreateLink handles POST /links
func (h *APIHandler) CreateLink(c *fiber.Ctx) error {
	var req CreateLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	link, err := h.linkService.CreateLink(userContext(c), service.CreateLinkInput{
		URL:  req.URL,
		Code: req.Code,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidURL):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid url",
			})
		case errors.Is(err, service.ErrInvalidCode):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": service.ErrInvalidCode.Error(),
			})
		case errors.Is(err, repository.ErrDuplicateCode):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "code already exists",
			})
		}
		return h.serverError(c, "create", req.Code, err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.toResponse(link))
}

// ListLinks handles GET /links. Without a limit every link is returned.
func (h *APIHandler) ListLinks(c *fiber.Ctx) error {
	limit := 0
	offset := 0

	if parsed := c.QueryInt("limit"); parsed > 0 {
		limit = parsed
	}
	if parsed := c.QueryInt("offset"); parsed > 0 {
		offset = parsed
	}

	links, err := h.linkService.ListLinks(userContext(c), limit, offset)
	if err != nil {
		return h.serverError(c, "list", "", err)
	}

	response := make([]LinkResponse, len(links))
	for i := range links {
		response[i] = h.toResponse(&links[i])
	}

	return c.JSON(response)
}

// GetLink handles GET /links/:code
func (h *APIHandler) GetLink(c *fiber.Ctx) error {
	code := utils.CopyString(c.Params("code"))
	if !shortcode.IsValid(code) {
		return notFoundJSON(c)
	}

	link, err := h.linkService.GetLink(userContext(c), code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return notFoundJSON(c)
		}
		return h.serverError(c, "get", code, err)
	}

	return c.JSON(h.toResponse(link))
}

// DeleteLink handles DELETE /links/:code
func (h *APIHandler) DeleteLink(c *fiber.Ctx) error {
	code := utils.CopyString(c.Params("code"))
	if !shortcode.IsValid(code) {
		return notFoundJSON(c)
	}

	if err := h.linkService.DeleteLink(userContext(c), code); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return notFoundJSON(c)
		}
		return h.serverError(c, "delete", code, err)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// serverError logs the failure for operators and answers with an opaque 500.
func (h *APIHandler) serverError(c *fiber.Ctx, op, code string, err error) error {
	h.logger.Error("link operation failed",
		zap.String("op", op),
		zap.String("code", code),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "server error",
	})
}

func notFoundJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "not found",
	})
}

func userContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}
