package bootstrap

import (
	"context"
	"log"

	"ai-interview-coach-be/internal/config"
	"ai-interview-coach-be/internal/controller"
	"ai-interview-coach-be/internal/handler"
	"ai-interview-coach-be/internal/pkg/logger"
	"ai-interview-coach-be/internal/pkg/mailer"
	"ai-interview-coach-be/internal/repository/contract"
	"ai-interview-coach-be/internal/repository/implementation"
	"ai-interview-coach-be/internal/repository/memory"
	"ai-interview-coach-be/internal/repository/unitofwork"
	"ai-interview-coach-be/internal/service"
	"ai-interview-coach-be/internal/websocket"
	"ai-interview-coach-be/pkg/agent"
	"ai-interview-coach-be/pkg/blob"
	"ai-interview-coach-be/pkg/extractor"
	"ai-interview-coach-be/pkg/limiter"
	"ai-interview-coach-be/pkg/llm/factory"

	pktNats "ai-interview-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	InterviewController controller.IInterviewController

	// Serverless-style HTTP adapter (used by cmd/functions)
	FunctionHandler *handler.FunctionHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Rate limiting and multi-instance push are off", err)
		rdb = nil
	}

	// 3. Domain Components
	llmProvider, err := factory.NewLLMProvider(
		context.Background(),
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	generator := agent.NewClient(llmProvider)
	docExtractor := extractor.New()
	artifactStore := blob.NewLocalStore(cfg.Storage.ArtifactDir, cfg.App.BaseURL)
	dailyLimiter := limiter.NewDailyLimiter(rdb, cfg.Limits.DailyResponses)

	// Session storage: Postgres for durability, in-memory for local work
	var sessionStore contract.SessionStore
	if cfg.App.SessionStore == "memory" {
		sessionStore = memory.NewSessionStore()
		log.Printf("[INFO] Using in-memory session store")
	} else {
		sessionStore = implementation.NewSessionStore(db)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	authService := service.NewAuthService(uowFactory)
	interviewService := service.NewInterviewService(
		sessionStore,
		generator,
		docExtractor,
		artifactStore,
		dailyLimiter,
		pubSub,
		cfg.Keys.SessionTopic,
		natsPub,
		wsHub,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.SessionTopic,
		uowFactory,
		sessionStore,
		emailService,
	)

	return &Container{
		AuthController:      controller.NewAuthController(authService),
		InterviewController: controller.NewInterviewController(interviewService),
		FunctionHandler:     handler.NewFunctionHandler(interviewService),
		RealtimeHandler:     handler.NewRealtimeHandler(wsHub, wsLogger),
		WebSocketHub:        wsHub,
		ConsumerService:     consumerService,
	}
}
