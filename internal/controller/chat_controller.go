package controller

import (
	"bufio"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/serverutils"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	StreamMessage(ctx *fiber.Ctx) error
}

type chatController struct {
	ragService service.IRagService
}

func NewChatController(ragService service.IRagService) IChatController {
	return &chatController{
		ragService: ragService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/message", c.SendMessage)
	h.Post("/stream", c.StreamMessage)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ragService.Answer(ctx.Context(), req.SessionId, req.Message, req.TopK)
	if err != nil {
		return err
	}

	return ctx.JSON(dto.ChatMessageResponse{
		Success:   true,
		Response:  res,
		SessionId: req.SessionId,
		Timestamp: time.Now().UTC(),
	})
}

// StreamMessage answers over a chunked plain-text response: raw answer
// fragments, flushed as they arrive from the model.
func (c *chatController) StreamMessage(ctx *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")

	// The fiber context is recycled once this handler returns, so the
	// stream writer must not touch it. Everything it needs is captured.
	ragService := c.ragService
	sessionId, message, topK := req.SessionId, req.Message, req.TopK

	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		_, _ = ragService.AnswerStream(context.Background(), sessionId, message, topK, func(fragment string) error {
			if _, err := w.WriteString(fragment); err != nil {
				return err
			}
			return w.Flush()
		})
	})

	return nil
}
