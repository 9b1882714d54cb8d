package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"doc-qa-be/internal/config"
	"doc-qa-be/internal/controller"
	"doc-qa-be/internal/pkg/logger"
	"doc-qa-be/internal/repository/unitofwork"
	"doc-qa-be/internal/service"
	"doc-qa-be/pkg/chunker"
	embeddingfactory "doc-qa-be/pkg/embedding/factory"
	llmfactory "doc-qa-be/pkg/llm/factory"
)

type Container struct {
	// Controllers
	DocumentController    controller.IDocumentController
	QueryController       controller.IQueryController
	SessionController     controller.ISessionController
	InterpreterController controller.IInterpreterController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	embeddingProvider, err := embeddingfactory.NewProvider(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize embedding provider: %v", err)
	}
	log.Printf("[INFO] Using embedding provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := llmfactory.NewProvider(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.ChatModel)

	splitter, err := chunker.NewSplitter(cfg.Ai.ChunkSize, cfg.Ai.ChunkOverlap)
	if err != nil {
		log.Fatalf("[FATAL] Invalid chunking configuration: %v", err)
	}

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Ai.CleanupTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.CleanupTopic,
		uowFactory,
		sysLogger,
	)

	documentService := service.NewDocumentService(
		uowFactory,
		embeddingProvider,
		publisherService,
		splitter,
		cfg.Upload.Dir,
		sysLogger,
	)
	ragService := service.NewRagService(
		uowFactory,
		embeddingProvider,
		llmProvider,
		cfg.Ai.TopK,
		sysLogger,
	)
	chatService := service.NewChatService(uowFactory)
	interpreterService := service.NewInterpreterService(llmProvider)

	// 5. Controllers
	return &Container{
		DocumentController:    controller.NewDocumentController(documentService),
		QueryController:       controller.NewQueryController(ragService),
		SessionController:     controller.NewSessionController(chatService),
		InterpreterController: controller.NewInterpreterController(interpreterService),

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}
