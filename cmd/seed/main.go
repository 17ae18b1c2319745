package main

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/config"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/dto"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/repository/implementation"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/service"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/database"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/embedding"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/embedding/jina"
)

// Seeds the vector index with a small batch of sample articles so the chat
// endpoints have something to retrieve in a fresh environment.
func main() {
	cfg := config.Load()

	color.Cyan("Seeding news articles into %s", cfg.Database.Connection)

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		color.Red("Unable to connect to database: %v", err)
		log.Fatal(err)
	}

	repo := implementation.NewArticleRepository(db)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		color.Red("Schema preparation failed: %v", err)
		log.Fatal(err)
	}

	var provider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "ollama":
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	case "jina":
		provider = jina.NewJinaProvider(cfg.Keys.Jina)
	default:
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	ingest := service.NewIngestService(pubSub, cfg.Keys.ArticleTopic, repo, provider, nil)

	count, err := ingest.StoreArticles(context.Background(), sampleArticles())
	if err != nil {
		color.Red("Seeding failed: %v", err)
		log.Fatal(err)
	}

	total, _ := repo.Count(context.Background())
	color.Green("Indexed %d articles (%d total in store)", count, total)
}

func sampleArticles() []dto.ArticlePayload {
	now := time.Now().UTC()
	return []dto.ArticlePayload{
		{
			Title:       "Central bank holds rates steady amid cooling inflation",
			Summary:     "Policymakers left the benchmark rate unchanged, citing three consecutive months of slowing price growth and a resilient labor market.",
			Content:     "The central bank kept its benchmark interest rate unchanged on Wednesday, pausing a tightening cycle that began two years ago. Officials pointed to inflation readings that have cooled for three straight months while employment remains strong. Markets had priced in the pause, though several analysts now expect a cut before year end.",
			Url:         "https://example.com/news/central-bank-holds-rates",
			Source:      "Reuters",
			PublishedAt: now.Add(-6 * time.Hour),
		},
		{
			Title:       "Coastal city approves landmark flood defense project",
			Summary:     "The council voted to fund a decade-long program of sea walls, pumping stations and wetland restoration after repeated storm surges.",
			Content:     "After years of debate, the city council approved a multi-billion flood defense program combining hard infrastructure with restored wetlands. Engineers say the first phase, a chain of pumping stations along the harbor, could be operational within three years. Environmental groups welcomed the wetland component but warned against delays.",
			Url:         "https://example.com/news/flood-defense-approved",
			Source:      "Associated Press",
			PublishedAt: now.Add(-12 * time.Hour),
		},
		{
			Title:       "Chipmaker unveils power-efficient processor for data centers",
			Summary:     "The new server chip promises a forty percent cut in energy use per workload, targeting operators under pressure to reduce emissions.",
			Content:     "The company introduced a server processor it says delivers the same throughput as its previous generation at forty percent lower power draw. Cloud operators, facing rising electricity costs and emissions targets, have been pushing suppliers for efficiency gains. Volume shipments are expected next quarter.",
			Url:         "https://example.com/news/chipmaker-efficient-processor",
			Source:      "Bloomberg",
			PublishedAt: now.Add(-20 * time.Hour),
		},
		{
			Title:       "Researchers report progress on malaria vaccine for infants",
			Summary:     "A trial across four countries showed strong protection in children under one year, a group existing vaccines serve poorly.",
			Content:     "Results published this week from a four-country trial show the candidate vaccine provided strong protection in infants, a population for which current options are least effective. Regulators will review the data next month. Health officials cautioned that manufacturing capacity remains the main obstacle to wide rollout.",
			Url:         "https://example.com/news/malaria-vaccine-infants",
			Source:      "BBC",
			PublishedAt: now.Add(-30 * time.Hour),
		},
		{
			Title:       "Rail strike ends as union ratifies four-year contract",
			Summary:     "Freight traffic resumed overnight after members approved a deal including wage increases and scheduling protections.",
			Content:     "The national rail strike ended early Tuesday after union members ratified a four-year contract. The agreement includes annual wage increases and new limits on on-call scheduling, the issue that triggered the walkout. Shippers estimate the two-week stoppage delayed hundreds of thousands of carloads.",
			Url:         "https://example.com/news/rail-strike-ends",
			Source:      "Reuters",
			PublishedAt: now.Add(-44 * time.Hour),
		},
	}
}
