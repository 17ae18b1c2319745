package bootstrap

import (
	"context"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/config"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/controller"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/pkg/logger"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/repository/implementation"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/service"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/websocket"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/cache"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/embedding"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/embedding/jina"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm/factory"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/llm/gateway"
	pktNats "github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/nats"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/sessionstore"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	SessionController controller.ISessionController
	ArticleController controller.IArticleController
	HealthController  controller.IHealthController

	// Background Services (Exposed for main.go to run)
	IngestService service.IIngestService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	llmGateway := gateway.New(llmProvider, newLLMLogger())

	// 4. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Storage
	articleRepo := implementation.NewArticleRepository(db)
	if err := articleRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to prepare vector schema: %v", err)
	}

	responseCache := cache.NewResponseCache(rdb, cfg.Rag.CacheTTL, sysLogger)
	sessionStore := sessionstore.New(rdb, cfg.Rag.SessionTTL, sysLogger)

	// 6. Services
	ragService := service.NewRagService(
		articleRepo,
		embeddingProvider,
		llmGateway,
		responseCache,
		sessionStore,
		cfg.Rag,
		sysLogger,
	)
	sessionService := service.NewSessionService(sessionStore)

	publisherService := service.NewPublisherService(cfg.Keys.ArticleTopic, pubSub)
	ingestService := service.NewIngestService(
		pubSub,
		cfg.Keys.ArticleTopic,
		articleRepo,
		embeddingProvider,
		natsPub,
	)

	// 7. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, ragService, wsLogger)
	go wsHub.Run()

	// 8. Index Update Notifier (Worker)
	notifierService := service.NewNotifierService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go func() {
			if err := notifierService.Start(); err != nil {
				log.Printf("[WARN] Failed to start index notifier: %v", err)
			}
		}()
	}

	return &Container{
		ChatController:    controller.NewChatController(ragService),
		SessionController: controller.NewSessionController(sessionService),
		ArticleController: controller.NewArticleController(publisherService, articleRepo),
		HealthController:  controller.NewHealthController(db, rdb),

		IngestService: ingestService,

		WebSocketHub: wsHub,
	}
}

// newLLMLogger writes gateway retry noise to its own file so the main log
// stays readable during provider incidents.
func newLLMLogger() *log.Logger {
	if err := os.MkdirAll("logs", 0o755); err == nil {
		f, err := os.OpenFile("logs/llm_gateway.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			return log.New(f, "", log.LstdFlags)
		}
	}
	return log.New(os.Stdout, "[llm] ", log.LstdFlags)
}
