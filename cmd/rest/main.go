package main

import (
	"context"
	"log"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/bootstrap"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/config"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/server"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/internal/tracer"
	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Ingest Consumer...")
		if err := container.IngestService.Consume(context.Background()); err != nil {
			log.Printf("Background Ingest Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
