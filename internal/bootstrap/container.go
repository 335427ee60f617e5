package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"cora-leaf-be/internal/config"
	"cora-leaf-be/internal/constant"
	"cora-leaf-be/internal/controller"
	"cora-leaf-be/internal/handler"
	"cora-leaf-be/internal/pkg/logger"
	"cora-leaf-be/internal/pkg/mailer"
	"cora-leaf-be/internal/pkg/serverutils"
	"cora-leaf-be/internal/repository/contract"
	"cora-leaf-be/internal/repository/implementation"
	"cora-leaf-be/internal/repository/memory"
	"cora-leaf-be/internal/service"
	"cora-leaf-be/internal/websocket"
	"cora-leaf-be/pkg/governance"
	"cora-leaf-be/pkg/llm/factory"
	pktNats "cora-leaf-be/pkg/nats"
	"cora-leaf-be/pkg/policy"
	"cora-leaf-be/pkg/quota"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController    controller.ISessionController
	CustomerController   controller.ICustomerController
	ChatController       controller.IChatController
	GovernanceController controller.IGovernanceController
	DispatchController   controller.IDispatchController
	AuditController      controller.IAuditController
	LiveHandler          *handler.LiveHandler

	SessionMiddleware fiber.Handler

	// Background services, started by main
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires every component. db may be nil, in which case the audit
// archive is disabled. Redis and NATS are optional in the same way.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Loggers
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	liveLogger := logger.NewIsolatedLogger(cfg.App.LiveLogFilePath)

	c := &Container{Logger: sysLogger}

	// 2. Catalog and governance
	catalog, err := policy.LoadCatalog(cfg.Governance.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	engine := governance.NewEngine(
		governance.WithEscalationAction(cfg.Governance.EscalationAction),
		governance.WithFollowUpAction(cfg.Governance.FollowUpAction),
	)

	// 3. Email transport
	var emailService mailer.IEmailService
	if cfg.SMTP.Enabled() {
		emailService = mailer.NewEmailService(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Email,
			cfg.SMTP.Password,
			cfg.SMTP.Email,
			cfg.SMTP.SenderName,
			sysLogger,
		)
	} else {
		emailService = mailer.NewSimulatedEmailService(sysLogger)
		log.Printf("[INFO] SMTP_HOST not set, email dispatch is simulated")
	}

	// 4. Assistant gateway
	llmProvider, err := factory.NewLLMProvider(context.Background(), factory.Config{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		FallbackModel: cfg.Ai.LLMFallbackModel,
		BaseURL:       cfg.Ai.OllamaBaseURL,
		APIKey:        cfg.Keys.GoogleGemini,
		Timeout:       cfg.Ai.Timeout,
		MaxRetries:    cfg.Ai.MaxRetries,
		Logger:        sysLogger.Zap(),
	})
	if err != nil {
		return nil, fmt.Errorf("init assistant gateway: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", llmProvider.Name())

	// 5. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 6. Optional infrastructure
	rdb := connectRedis(cfg.App.RedisURL)
	if rdb != nil {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	var limiter service.QuotaLimiter
	if rdb != nil && cfg.Ai.CallLimit > 0 {
		limiter = quota.NewRedisLimiter(rdb, cfg.Ai.CallLimit, cfg.Ai.CallWindow)
		log.Printf("[INFO] Gateway quota: %d calls per %s", cfg.Ai.CallLimit, cfg.Ai.CallWindow)
	} else if cfg.Ai.CallLimit > 0 {
		log.Printf("[WARN] GATEWAY_CALL_LIMIT set but Redis is unavailable, quota disabled")
	}

	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] NATS publisher: %v", err)
		}
		if natsPub != nil {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	var archive contract.AuditRepository
	if db != nil {
		repo := implementation.NewAuditRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := repo.Migrate(ctx)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("migrate audit archive: %w", err)
		}
		archive = repo
	}

	// 7. Live feed
	wsHub := websocket.NewHub(rdb, liveLogger)

	// 8. Services
	sessionRepo := memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
	publisherService := service.NewPublisherService(constant.AuditTopic, pubSub)

	sessionService := service.NewSessionService(sessionRepo, catalog, emailService, wsHub, sysLogger, service.SessionConfig{
		Secret:             cfg.Keys.JwtSecret,
		TTL:                cfg.Session.TTL,
		CustomerManagement: cfg.Governance.CustomerManagementMode,
		DefaultCustomer:    cfg.Governance.DefaultCustomer,
	})
	customerService := service.NewCustomerService(sessionService, sysLogger)
	chatService := service.NewChatService(sessionService, llmProvider, limiter, wsHub, sysLogger, service.ChatConfig{
		HistoryWindow: cfg.Ai.HistoryWindow,
		Temperature:   cfg.Ai.Temperature,
		MaxTokens:     cfg.Ai.MaxTokens,
	})
	governanceService := service.NewGovernanceService(sessionService, engine, publisherService, wsHub, sysLogger)
	dispatchService := service.NewDispatchService(sessionService, publisherService, wsHub, sysLogger)
	auditService := service.NewAuditService(archive, auditLogger)

	c.ConsumerService = service.NewConsumerService(pubSub, constant.AuditTopic, auditLogger, archive, forwarder, sysLogger)
	c.WebSocketHub = wsHub

	// 9. Controllers
	c.SessionMiddleware = serverutils.SessionMiddleware(cfg.Keys.JwtSecret)
	c.SessionController = controller.NewSessionController(sessionService)
	c.CustomerController = controller.NewCustomerController(customerService)
	c.ChatController = controller.NewChatController(chatService)
	c.GovernanceController = controller.NewGovernanceController(governanceService)
	c.DispatchController = controller.NewDispatchController(dispatchService)
	c.AuditController = controller.NewAuditController(auditService)
	c.LiveHandler = handler.NewLiveHandler(sessionService, wsHub, liveLogger)

	return c, nil
}

// Close releases the optional connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

// connectRedis returns nil when Redis is not configured or not reachable.
func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
