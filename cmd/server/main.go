// SkillSwap Community Hub API server.
//
// Собирает все слои приложения: хранилище (Postgres или встроенное
// in-memory), Redis-кеши, шину событий, AI-рекомендателя и HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/skillswap-hub/skillswap-community-hub/config"
	"github.com/skillswap-hub/skillswap-community-hub/internal/application/command"
	"github.com/skillswap-hub/skillswap-community-hub/internal/application/eventhandler"
	"github.com/skillswap-hub/skillswap-community-hub/internal/application/query"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/conversation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/skill"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/external/recommender"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/messaging"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/postgres"
	rediscache "github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/redis"
	httpapi "github.com/skillswap-hub/skillswap-community-hub/internal/interface/http"
	"github.com/skillswap-hub/skillswap-community-hub/internal/interface/http/handlers"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/logger"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/retry"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// repositories группирует доменные репозитории независимо от бекенда.
type repositories struct {
	users         user.Repository
	sessions      session.Repository
	reviews       review.Repository
	conversations conversation.Repository
	nextUserID    func(ctx context.Context) (shared.UserID, error)
	healthCheck   handlers.HealthCheckFunc
	close         func()
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. КОНФИГУРАЦИЯ
	// ─────────────────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. ЛОГИРОВАНИЕ И ЧАСОВОЙ ПОЯС
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	}).With(logger.Component("server"))

	timeutil.SetCommunityTZ(cfg.App.Location)

	log.Info("starting skillswap community hub",
		logger.String("version", cfg.App.Version),
		logger.String("environment", string(cfg.App.Environment)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩЕ (Postgres или in-memory)
	// ─────────────────────────────────────────────────────────────────────────
	repos, err := buildRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache      *rediscache.Cache
		userCache  user.Cache
		boardCache reputation.Cache
	)
	if !cfg.Redis.Disabled {
		redisCfg := rediscache.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err = rediscache.NewCache(redisCfg)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", logger.Err(err))
		} else {
			defer cache.Close()
			userCache = rediscache.NewUserCache(cache)
			boardCache = rediscache.NewBoardCache(cache)
			log.Info("redis connected", logger.String("addr", redisCfg.Addr()))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ШИНА СОБЫТИЙ И ДИСПЕТЧЕР
	// ─────────────────────────────────────────────────────────────────────────
	bus, err := buildEventBus(cache, log)
	if err != nil {
		return fmt.Errorf("event bus: %w", err)
	}
	defer bus.Close()

	dispatcher := messaging.NewDispatcher(messaging.DispatcherConfig{
		EventBus: bus,
		Logger:   log,
	})
	dispatcher.Use(messaging.RecoveryMiddleware(log))
	dispatcher.Use(messaging.LoggingMiddleware(log))

	onCompleted := eventhandler.NewOnSessionCompleted(repos.users, repos.sessions, repos.reviews, boardCache, bus, log)
	onReviewed := eventhandler.NewOnReviewSubmitted(repos.users, repos.sessions, repos.reviews, boardCache, bus, log)

	if err := dispatcher.Register(shared.EventSessionCompleted, "session_completed", onCompleted.Handle); err != nil {
		return fmt.Errorf("register handler: %w", err)
	}
	if err := dispatcher.Register(shared.EventReviewSubmitted, "review_submitted", onReviewed.Handle); err != nil {
		return fmt.Errorf("register handler: %w", err)
	}
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("start dispatcher: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. AI-РЕКОМЕНДАТЕЛЬ (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var rec match.Recommender
	if cfg.Recommender.APIKey != "" && cfg.Features.AIRecommendationsEnabled(nil) {
		clientCfg := recommender.DefaultClientConfig(cfg.Recommender.APIKey)
		clientCfg.BaseURL = cfg.Recommender.BaseURL
		clientCfg.Model = cfg.Recommender.Model
		clientCfg.RequestTimeout = cfg.Recommender.RequestTimeout
		clientCfg.Logger = log
		rec = recommender.NewClient(clientCfg)
		log.Info("ai recommender enabled", logger.String("model", cfg.Recommender.Model))
	} else {
		log.Info("ai recommender disabled, deterministic finder only")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	catalog := skill.DefaultCatalog()
	finder := match.NewFinder(catalog)

	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	if repos.healthCheck != nil {
		healthChecker.AddCheck("database", repos.healthCheck)
	}
	if cache != nil {
		healthChecker.AddCheck("redis", handlers.NewCacheCheck(cache))
	}

	deps := httpapi.Dependencies{
		SignUpHandler:            command.NewSignUpHandler(repos.users, repos.nextUserID, bus),
		LogInHandler:             command.NewLogInHandler(repos.users),
		BookSessionHandler:       command.NewBookSessionHandler(repos.users, repos.sessions, catalog, bus),
		TransitionSessionHandler: command.NewTransitionSessionHandler(repos.sessions, bus),
		SubmitReviewHandler:      command.NewSubmitReviewHandler(repos.sessions, repos.reviews, bus),
		SendMessageHandler:       command.NewSendMessageHandler(repos.users, repos.conversations, bus),
		UpdateProfileHandler:     command.NewUpdateProfileHandler(repos.users, userCache),
		GetMatchesHandler:        query.NewGetMatchesHandler(repos.users, finder),
		RecommendMatchesHandler:  query.NewRecommendMatchesHandler(repos.users, rec, catalog),
		GetLeaderboardHandler:    query.NewGetLeaderboardHandler(repos.users, repos.sessions, repos.reviews, boardCache),
		GetDashboardHandler:      query.NewGetDashboardHandler(repos.users, repos.sessions, repos.reviews, repos.conversations, catalog),
		ListSessionsHandler:      query.NewListSessionsHandler(repos.users, repos.sessions, catalog),
		ListConversationsHandler: query.NewListConversationsHandler(repos.users, repos.conversations),
		GetMessagesHandler:       query.NewGetMessagesHandler(repos.conversations),
		Logger:                   log,
		HealthChecker:            healthChecker,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP API И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpapi.Config{
		Host:               cfg.HTTP.Host,
		Port:               cfg.HTTP.Port,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:     1 << 20,
		MaxBodyBytes:       1 << 20,
		EnableCORS:         cfg.HTTP.EnableCORS,
		AllowedOrigins:     cfg.HTTP.AllowedOrigins,
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
		CurrentUserID:      cfg.App.CurrentUserID,
	}

	server := httpapi.NewServer(serverCfg, deps)
	errCh := server.StartAsync()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildRepositories подключает Postgres с ретраями или поднимает
// in-memory хранилище с демо-данными.
func buildRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.Database.Disabled {
		log.Info("database disabled, using seeded in-memory store")
		store := memory.NewSeededStore()
		users := store.Users()
		return &repositories{
			users:         users,
			sessions:      store.Sessions(),
			reviews:       store.Reviews(),
			conversations: store.Conversations(),
			nextUserID:    users.NextID,
			close:         func() {},
		}, nil
	}

	var conn *postgres.Connection
	connect := retry.New(
		retry.WithMaxAttempts(5),
		retry.WithInitialDelay(time.Second),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("database connect failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	)
	err := connect.Do(ctx, func(ctx context.Context) error {
		var connErr error
		conn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		return connErr
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := postgres.NewMigrator(conn).Up(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	log.Info("database connected, migrations applied")

	users := postgres.NewUserRepo(conn)
	return &repositories{
		users:         users,
		sessions:      postgres.NewSessionRepo(conn),
		reviews:       postgres.NewReviewRepo(conn),
		conversations: postgres.NewConversationRepo(conn),
		nextUserID:    users.NextID,
		healthCheck:   handlers.NewDatabaseCheck(conn),
		close:         conn.Close,
	}, nil
}

// eventBus - шина событий с управляемым жизненным циклом.
type eventBus interface {
	shared.EventBus
	Close() error
}

// buildEventBus выбирает шину: Redis pub/sub для мультиинстансного
// запуска, иначе локальная in-memory шина.
func buildEventBus(cache *rediscache.Cache, log *logger.Logger) (eventBus, error) {
	local := messaging.DefaultInMemoryEventBusConfig()
	local.Logger = log

	if cache == nil {
		return messaging.NewInMemoryEventBus(local), nil
	}

	bus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
		Client:         cache.Client(),
		LocalBusConfig: local,
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}
	return bus, nil
}
