// SkillSwap Community Hub background worker.
//
// Запускает планировщик фоновых задач: пересборку рейтингов,
// пересчёт значков и отмену просроченных заявок на сессии.
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
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/messaging"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/postgres"
	rediscache "github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/redis"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/scheduler"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/scheduler/jobs"
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

// workerRepos группирует репозитории, нужные фоновым задачам.
type workerRepos struct {
	users    user.Repository
	sessions session.Repository
	reviews  review.Repository
	close    func()
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. КОНФИГУРАЦИЯ И ЛОГИРОВАНИЕ
	// ─────────────────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	}).With(logger.Component("worker"))

	timeutil.SetCommunityTZ(cfg.App.Location)

	if !cfg.Scheduler.Enabled {
		log.Info("scheduler disabled, nothing to do")
		return nil
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. ХРАНИЛИЩЕ
	// ─────────────────────────────────────────────────────────────────────────
	repos, err := buildWorkerRepos(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close()

	// ─────────────────────────────────────────────────────────────────────────
	// 3. REDIS И ШИНА СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	var cache *rediscache.Cache
	if !cfg.Redis.Disabled {
		redisCfg := rediscache.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, err = rediscache.NewCache(redisCfg)
		if err != nil {
			log.Warn("redis unavailable, board rebuild disabled", logger.Err(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log
	bus := messaging.NewInMemoryEventBus(busCfg)
	defer bus.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ПЛАНИРОВЩИК И ЗАДАЧИ
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
		Logger:   log,
		Timezone: cfg.App.Location,
	})

	if cache != nil {
		boardCache := rediscache.NewBoardCache(cache)

		rebuildCfg := jobs.DefaultRebuildBoardsConfig()
		rebuildCfg.CacheTTL = cfg.Scheduler.RebuildLeaderboardInterval * 2
		rebuildCfg.Timeout = cfg.Scheduler.JobTimeout

		rebuild := jobs.NewRebuildBoardsJob(repos.users, repos.sessions, repos.reviews, boardCache, bus, log, rebuildCfg)
		if err := sched.Register(rebuild, scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildLeaderboardInterval)); err != nil {
			return fmt.Errorf("register rebuild job: %w", err)
		}
	} else {
		log.Info("no redis cache, skipping board rebuild job")
	}

	badgesCfg := jobs.DefaultRefreshBadgesConfig()
	badgesCfg.Timeout = cfg.Scheduler.JobTimeout

	badges := jobs.NewRefreshBadgesJob(repos.users, repos.sessions, repos.reviews, bus, log, badgesCfg)
	if err := sched.Register(badges, scheduler.NewIntervalSchedule(cfg.Scheduler.RefreshBadgesInterval)); err != nil {
		return fmt.Errorf("register badges job: %w", err)
	}

	expire := jobs.NewExpireSessionsJob(repos.sessions, bus, log, jobs.DefaultExpireSessionsConfig())
	// Суточная уборка в тихое время.
	if err := sched.Register(expire, scheduler.NewDailySchedule(4, 0)); err != nil {
		return fmt.Errorf("register expiry job: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	for _, info := range sched.ListJobs() {
		log.Info("job scheduled",
			logger.String("job", info.Name),
			logger.String("schedule", info.Schedule),
			logger.Time("next_run", info.NextRun),
		)
	}

	<-ctx.Done()
	log.Info("shutdown signal received")

	if err := sched.Stop(); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}

	log.Info("worker stopped")
	return nil
}

// buildWorkerRepos подключает Postgres с ретраями или поднимает
// in-memory хранилище с демо-данными.
func buildWorkerRepos(ctx context.Context, cfg *config.Config, log *logger.Logger) (*workerRepos, error) {
	if cfg.Database.Disabled {
		log.Info("database disabled, using seeded in-memory store")
		store := memory.NewSeededStore()
		return &workerRepos{
			users:    store.Users(),
			sessions: store.Sessions(),
			reviews:  store.Reviews(),
			close:    func() {},
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

	return &workerRepos{
		users:    postgres.NewUserRepo(conn),
		sessions: postgres.NewSessionRepo(conn),
		reviews:  postgres.NewReviewRepo(conn),
		close:    conn.Close,
	}, nil
}
