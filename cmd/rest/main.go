package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"restaurant-discovery-be/internal/bootstrap"
	"restaurant-discovery-be/internal/config"
	"restaurant-discovery-be/internal/model"
	"restaurant-discovery-be/internal/server"
	"restaurant-discovery-be/internal/tracer"
	"restaurant-discovery-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load configuration
	cfg := config.Load()

	// 2. Connect both stores
	metadataDB, err := database.NewGormDBWithRetry(
		cfg.Database.MetadataConnection,
		cfg.Database.ConnectAttempts,
		cfg.Database.ConnectBackoff,
	)
	if err != nil {
		log.Panicf("Unable to connect to metadata store: %v", err)
	}

	vectorDB, err := database.NewGormDBWithRetry(
		cfg.Database.VectorConnection,
		cfg.Database.ConnectAttempts,
		cfg.Database.ConnectBackoff,
	)
	if err != nil {
		log.Panicf("Unable to connect to vector store: %v", err)
	}

	// 3. Migrate schemas (vector store needs the pgvector extension)
	if err := metadataDB.AutoMigrate(&model.RestaurantMetadata{}); err != nil {
		log.Panicf("Metadata store migration failed: %v", err)
	}
	if err := vectorDB.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Panicf("Unable to enable pgvector extension: %v", err)
	}
	if err := vectorDB.AutoMigrate(&model.RestaurantVector{}); err != nil {
		log.Panicf("Vector store migration failed: %v", err)
	}

	// 4. Bootstrap dependencies
	container := bootstrap.NewContainer(metadataDB, vectorDB, cfg)

	// 5. Initialize server
	srv := server.New(cfg, container)

	// 6. Run with graceful shutdown; the pipeline stops before the listener.
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		log.Println("Shutting down...")
		container.PipelineService.Stop()
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
