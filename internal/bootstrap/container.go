package bootstrap

import (
	"semantic-docs-be/internal/config"
	"semantic-docs-be/internal/controller"
	"semantic-docs-be/internal/pkg/logger"
	"semantic-docs-be/internal/repository/unitofwork"
	"semantic-docs-be/internal/service"
	"semantic-docs-be/pkg/embedding"
	"semantic-docs-be/pkg/translation"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController

	// Services (exposed for cmd tools and background wiring)
	DocumentService service.IDocumentService
	SearchService   service.ISearchService

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

	// 3. External Clients
	embeddingProvider := embedding.NewHTTPProvider(
		cfg.Embedding.BaseURL,
		cfg.Embedding.Model,
		cfg.Embedding.Dimension,
	)

	translationClient := translation.NewClient(translation.Config{
		BaseURL:             cfg.Translator.BaseURL,
		PrimaryKey:          cfg.Translator.PrimaryKey,
		FallbackKey:         cfg.Translator.FallbackKey,
		CharBudgetPerMinute: cfg.Translator.CharBudgetPerMinute,
	})

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Importer.EventTopic)
	consumerService := service.NewConsumerService(pubSub, cfg.Importer.EventTopic, uowFactory, sysLogger)

	documentService := service.NewDocumentService(
		uowFactory,
		embeddingProvider,
		translationClient,
		publisherService,
		service.LanguageConfig{
			Primary:    cfg.Importer.PrimaryLanguage,
			Translated: cfg.Translator.TargetLanguage,
		},
		sysLogger,
	)
	searchService := service.NewSearchService(uowFactory, embeddingProvider)

	// 5. Controllers
	documentController := controller.NewDocumentController(documentService, searchService)

	return &Container{
		DocumentController: documentController,
		DocumentService:    documentService,
		SearchService:      searchService,
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
