// Package jobs contains implementations of scheduled jobs for SkillSwap
// Community Hub.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/review"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/user"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/logger"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REBUILD BOARDS JOB
// ══════════════════════════════════════════════════════════════════════════════

// RebuildBoardsJob recomputes every leaderboard from the repositories and
// refreshes the board cache. Reads stay cheap between rebuilds and a cold
// cache never blocks the read path, which recomputes on miss anyway.
type RebuildBoardsJob struct {
	userRepo       user.Repository
	sessionRepo    session.Repository
	reviewRepo     review.Repository
	boardCache     reputation.Cache
	eventPublisher shared.EventPublisher
	log            *logger.Logger
	config         RebuildBoardsConfig
}

// RebuildBoardsConfig contains configuration for the rebuild job.
type RebuildBoardsConfig struct {
	// CacheTTL is the TTL for cached board snapshots. It should exceed the
	// rebuild interval so snapshots never expire between runs.
	CacheTTL time.Duration

	// Timeout bounds a single rebuild run.
	Timeout time.Duration
}

// DefaultRebuildBoardsConfig returns sensible defaults.
func DefaultRebuildBoardsConfig() RebuildBoardsConfig {
	return RebuildBoardsConfig{
		CacheTTL: 10 * time.Minute,
		Timeout:  time.Minute,
	}
}

// NewRebuildBoardsJob creates a new rebuild job.
func NewRebuildBoardsJob(
	userRepo user.Repository,
	sessionRepo session.Repository,
	reviewRepo review.Repository,
	boardCache reputation.Cache,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
	config RebuildBoardsConfig,
) *RebuildBoardsJob {
	if log == nil {
		log = logger.Default()
	}

	return &RebuildBoardsJob{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		reviewRepo:     reviewRepo,
		boardCache:     boardCache,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("rebuild_boards")),
		config:         config,
	}
}

// Name implements scheduler.Job.
func (j *RebuildBoardsJob) Name() string {
	return "rebuild_boards"
}

// Description implements scheduler.Job.
func (j *RebuildBoardsJob) Description() string {
	return "Recomputes all leaderboards and refreshes the board cache"
}

// Run implements scheduler.Job.
func (j *RebuildBoardsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	start := time.Now()

	users, err := j.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("rebuild_boards: list users: %w", err)
	}
	sessions, err := j.sessionRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("rebuild_boards: list sessions: %w", err)
	}
	reviews, err := j.reviewRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("rebuild_boards: list reviews: %w", err)
	}

	ids := make([]shared.UserID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	stats := reputation.ComputeAllStats(ids, sessions, reviews, shared.MonthOf(timeutil.Now()))

	boards := map[reputation.Board][]reputation.Entry{
		reputation.BoardTopTeachers:     reputation.TopTeachers(stats, reputation.CategoryBoardSize),
		reputation.BoardTopLearners:     reputation.TopLearners(stats, reputation.CategoryBoardSize),
		reputation.BoardMonthlyLearners: reputation.MonthlyLearners(stats, reputation.CategoryBoardSize),
		reputation.BoardTopRated:        reputation.TopRated(stats, reputation.CategoryBoardSize),
		reputation.BoardGlobalPoints:    reputation.GlobalPoints(users),
	}

	for board, entries := range boards {
		if err := j.boardCache.SetBoard(ctx, board, entries, j.config.CacheTTL); err != nil {
			return fmt.Errorf("rebuild_boards: cache %s: %w", board, err)
		}
		if j.eventPublisher != nil {
			event := shared.NewLeaderboardUpdatedEvent(string(board), len(entries))
			if err := j.eventPublisher.Publish(event); err != nil {
				j.log.Warn("failed to publish board update",
					logger.Board(string(board)),
					logger.Err(err),
				)
			}
		}
	}

	j.log.Info("boards rebuilt",
		logger.Int("users", len(users)),
		logger.Int("boards", len(boards)),
		logger.Latency(time.Since(start)),
	)
	return nil
}
