package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/serverutils"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/repository/contract"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/service"
)

const (
	defaultRecentHours = 24
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

type IArticleController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Recent(ctx *fiber.Ctx) error
}

type articleController struct {
	publisherService service.IPublisherService
	articleRepo      contract.ArticleRepository
}

func NewArticleController(publisherService service.IPublisherService, articleRepo contract.ArticleRepository) IArticleController {
	return &articleController{
		publisherService: publisherService,
		articleRepo:      articleRepo,
	}
}

func (c *articleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/articles")
	h.Post("/ingest", c.Ingest)
	h.Get("/recent", c.Recent)
}

// Ingest accepts a batch from a collector and hands it to the async pipeline.
// Embedding and indexing happen off the request path.
func (c *articleController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestArticlesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	msg := &dto.IngestArticlesMessage{Articles: req.Articles}
	if err := c.publisherService.PublishArticles(ctx.Context(), msg); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Articles queued for indexing", fiber.Map{
		"queued": len(req.Articles),
	}))
}

func (c *articleController) Recent(ctx *fiber.Ctx) error {
	hours := ctx.QueryInt("hours", defaultRecentHours)
	if hours <= 0 {
		hours = defaultRecentHours
	}

	limit := ctx.QueryInt("limit", defaultRecentLimit)
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	articles, err := c.articleRepo.FindSince(ctx.Context(), since, limit)
	if err != nil {
		return err
	}

	out := make([]dto.RecentArticleDTO, 0, len(articles))
	for _, article := range articles {
		out = append(out, dto.RecentArticleDTO{
			Id:          article.Id.String(),
			Title:       article.Title,
			Summary:     article.Summary,
			Url:         article.Url,
			Source:      article.Source,
			PublishedAt: article.PublishedAt,
		})
	}

	return ctx.JSON(dto.RecentArticlesResponse{
		Success:  true,
		Articles: out,
		Count:    len(out),
	})
}
