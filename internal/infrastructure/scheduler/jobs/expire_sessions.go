package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/logger"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPIRE SESSIONS JOB
// ══════════════════════════════════════════════════════════════════════════════

// ExpireSessionsJob cancels pending sessions whose scheduled date passed
// without a confirmation. Keeps stale requests from cluttering dashboards
// and upcoming-session lists forever.
type ExpireSessionsJob struct {
	sessionRepo    session.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
	config         ExpireSessionsConfig
}

// ExpireSessionsConfig contains configuration for the expiry job.
type ExpireSessionsConfig struct {
	// GracePeriod is how long after the scheduled date a pending session
	// survives before it is cancelled.
	GracePeriod time.Duration

	// Timeout bounds a single sweep.
	Timeout time.Duration
}

// DefaultExpireSessionsConfig returns sensible defaults.
func DefaultExpireSessionsConfig() ExpireSessionsConfig {
	return ExpireSessionsConfig{
		GracePeriod: 24 * time.Hour,
		Timeout:     time.Minute,
	}
}

// NewExpireSessionsJob creates a new expiry job.
func NewExpireSessionsJob(
	sessionRepo session.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
	config ExpireSessionsConfig,
) *ExpireSessionsJob {
	if log == nil {
		log = logger.Default()
	}

	return &ExpireSessionsJob{
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("expire_sessions")),
		config:         config,
	}
}

// Name implements scheduler.Job.
func (j *ExpireSessionsJob) Name() string {
	return "expire_sessions"
}

// Description implements scheduler.Job.
func (j *ExpireSessionsJob) Description() string {
	return "Cancels pending sessions whose date passed unconfirmed"
}

// Run implements scheduler.Job.
func (j *ExpireSessionsJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	pending, err := j.sessionRepo.ListByStatus(ctx, session.StatusPending)
	if err != nil {
		return fmt.Errorf("expire_sessions: list pending: %w", err)
	}

	cutoff := timeutil.Now().Add(-j.config.GracePeriod)

	var expired int
	for _, s := range pending {
		if s.Date.After(cutoff) {
			continue
		}
		if err := s.Cancel(); err != nil {
			continue
		}
		if err := j.sessionRepo.Update(ctx, s); err != nil {
			return fmt.Errorf("expire_sessions: update session %d: %w", s.ID, err)
		}
		if j.eventPublisher != nil {
			event := shared.NewSessionCancelledEvent(s.ID, s.LearnerID.Int(), "expired")
			_ = j.eventPublisher.Publish(event)
		}
		expired++
	}

	if expired > 0 {
		j.log.Info("pending sessions expired", logger.Int("expired", expired))
	}
	return nil
}
