package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/serverutils"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/service"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/sessionstore"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	h.Post("/create", c.Create)
	h.Get("/:id/history", c.History)
	h.Delete("/:id", c.Clear)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Create(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	res, err := c.sessionService.History(ctx.Context(), id)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) Clear(ctx *fiber.Ctx) error {
	id := ctx.Params("id")

	if err := c.sessionService.Clear(ctx.Context(), id); err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "session not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session cleared", nil))
}
