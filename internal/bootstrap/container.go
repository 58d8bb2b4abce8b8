package bootstrap

import (
	"log"

	"restaurant-discovery-be/internal/config"
	"restaurant-discovery-be/internal/controller"
	"restaurant-discovery-be/internal/mapper"
	"restaurant-discovery-be/internal/pkg/logger"
	"restaurant-discovery-be/internal/repository/implementation"
	"restaurant-discovery-be/internal/saga"
	"restaurant-discovery-be/internal/service"
	"restaurant-discovery-be/pkg/analyzer"
	"restaurant-discovery-be/pkg/embedding"

	pktNats "restaurant-discovery-be/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ReviewController     controller.IReviewController
	RestaurantController controller.IRestaurantController

	// Background services (exposed for main.go to stop on shutdown)
	PipelineService service.IPipelineService

	Logger logger.ILogger
}

// NewContainer wires the dependency graph. metadataDB and vectorDB are
// physically separate stores and never share a connection.
func NewContainer(metadataDB *gorm.DB, vectorDB *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Stores
	metadataRepo := implementation.NewMetadataRepository(metadataDB)
	vectorRepo := implementation.NewVectorRepository(vectorDB)

	// 3. AI providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	reviewAnalyzer := analyzer.NewOllamaAnalyzer(cfg.Ai.OllamaBaseURL, cfg.Ai.AnalyzerModel)
	log.Printf("[INFO] Using Analyzer Model: %s", cfg.Ai.AnalyzerModel)

	// 4. Update stream
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 5. Services
	coordinator := saga.NewCoordinator(sysLogger)
	restaurantService := service.NewRestaurantService(
		metadataRepo,
		vectorRepo,
		coordinator,
		natsPub,
		sysLogger,
	)
	searchService := service.NewSearchService(embeddingProvider, restaurantService)
	pipelineService := service.NewPipelineService(
		reviewAnalyzer,
		embeddingProvider,
		restaurantService,
		sysLogger,
		service.PipelineOptions{
			QueueBuffer:      cfg.Pipeline.QueueBuffer,
			IdleTimeout:      cfg.Pipeline.IdleTimeout,
			WatchdogInterval: cfg.Pipeline.WatchdogInterval,
			DedupWindow:      cfg.Pipeline.DedupWindow,
		},
	)

	// 6. Controllers
	restaurantMapper := mapper.NewRestaurantMapper()
	return &Container{
		ReviewController:     controller.NewReviewController(pipelineService),
		RestaurantController: controller.NewRestaurantController(restaurantService, searchService, restaurantMapper),
		PipelineService:      pipelineService,
		Logger:               sysLogger,
	}
}
