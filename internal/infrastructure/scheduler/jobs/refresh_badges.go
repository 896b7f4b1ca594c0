package jobs

import (
	"context"
	"errors"
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
// REFRESH BADGES JOB
// ══════════════════════════════════════════════════════════════════════════════

// RefreshBadgesJob recomputes every user's badge set from current sessions
// and reviews. Event handlers keep badges fresh for the users an event
// touches; this sweep repairs the rest, including badges lost when the
// underlying condition no longer holds.
type RefreshBadgesJob struct {
	userRepo       user.Repository
	sessionRepo    session.Repository
	reviewRepo     review.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
	config         RefreshBadgesConfig
}

// RefreshBadgesConfig contains configuration for the badge refresh job.
type RefreshBadgesConfig struct {
	// Timeout bounds a single sweep.
	Timeout time.Duration
}

// DefaultRefreshBadgesConfig returns sensible defaults.
func DefaultRefreshBadgesConfig() RefreshBadgesConfig {
	return RefreshBadgesConfig{
		Timeout: 2 * time.Minute,
	}
}

// NewRefreshBadgesJob creates a new badge refresh job.
func NewRefreshBadgesJob(
	userRepo user.Repository,
	sessionRepo session.Repository,
	reviewRepo review.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
	config RefreshBadgesConfig,
) *RefreshBadgesJob {
	if log == nil {
		log = logger.Default()
	}

	return &RefreshBadgesJob{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		reviewRepo:     reviewRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("refresh_badges")),
		config:         config,
	}
}

// Name implements scheduler.Job.
func (j *RefreshBadgesJob) Name() string {
	return "refresh_badges"
}

// Description implements scheduler.Job.
func (j *RefreshBadgesJob) Description() string {
	return "Recomputes derived badges for all users"
}

// Run implements scheduler.Job.
func (j *RefreshBadgesJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	users, err := j.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh_badges: list users: %w", err)
	}

	month := shared.MonthOf(timeutil.Now())

	var refreshed, failed int
	var firstErr error
	for _, u := range users {
		if err := j.refreshOne(ctx, u, month); err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			j.log.Warn("failed to refresh badges",
				logger.UserID(u.ID.Int()),
				logger.Err(err),
			)
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				break
			}
			continue
		}
		refreshed++
	}

	j.log.Info("badge sweep finished",
		logger.Int("refreshed", refreshed),
		logger.Int("failed", failed),
	)

	if firstErr != nil {
		return fmt.Errorf("refresh_badges: %d of %d users failed: %w", failed, len(users), firstErr)
	}
	return nil
}

func (j *RefreshBadgesJob) refreshOne(ctx context.Context, u *user.User, month shared.TimeRange) error {
	sessions, err := j.sessionRepo.ListByUser(ctx, u.ID)
	if err != nil {
		return err
	}

	received, err := j.reviewRepo.ListByReviewee(ctx, u.ID)
	if err != nil {
		return err
	}

	stats := reputation.ComputeStats(u.ID, sessions, received, month)
	earned := reputation.EvaluateBadges(reputation.BadgeInput{
		User:            u,
		Stats:           stats,
		ReceivedReviews: received,
	})

	if !badgesEqual(u.Badges, earned) {
		if j.eventPublisher != nil {
			for _, badgeID := range earned {
				if u.HasBadge(badgeID) {
					continue
				}
				if spec, ok := reputation.FindBadge(badgeID); ok {
					_ = j.eventPublisher.Publish(shared.NewBadgeUnlockedEvent(u.ID.Int(), spec.ID, spec.Title))
				}
			}
		}
		u.SetBadges(earned)
		return j.userRepo.Update(ctx, u)
	}
	return nil
}

// badgesEqual compares badge sets respecting catalog order, which both
// sides already follow.
func badgesEqual(current, earned []string) bool {
	if len(current) != len(earned) {
		return false
	}
	for i := range current {
		if current[i] != earned[i] {
			return false
		}
	}
	return true
}
