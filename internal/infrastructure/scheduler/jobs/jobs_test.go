package jobs

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/reputation"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/session"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/internal/infrastructure/persistence/memory"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *capturePublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) countOf(t shared.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, e := range p.events {
		if e.EventType() == t {
			n++
		}
	}
	return n
}

func TestExpireSessionsJob_CancelsStalePendingSessions(t *testing.T) {
	store := memory.NewSeededStore()
	pub := &capturePublisher{}
	job := NewExpireSessionsJob(store.Sessions(), pub, nil, DefaultExpireSessionsConfig())

	require.NoError(t, job.Run(context.Background()))

	// Обе демо-заявки просрочены и должны быть отменены.
	pending, err := store.Sessions().ListByStatus(context.Background(), session.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	cancelled, err := store.Sessions().ListByStatus(context.Background(), session.StatusCancelled)
	require.NoError(t, err)
	assert.Len(t, cancelled, 2)
	assert.Equal(t, 2, pub.countOf(shared.EventSessionCancelled))
}

func TestExpireSessionsJob_SecondRunIsNoop(t *testing.T) {
	store := memory.NewSeededStore()
	pub := &capturePublisher{}
	job := NewExpireSessionsJob(store.Sessions(), pub, nil, DefaultExpireSessionsConfig())

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, 2, pub.countOf(shared.EventSessionCancelled))
}

func TestRefreshBadgesJob_AwardsEarnedBadges(t *testing.T) {
	store := memory.NewSeededStore()
	pub := &capturePublisher{}
	job := NewRefreshBadgesJob(store.Users(), store.Sessions(), store.Reviews(), pub, nil, DefaultRefreshBadgesConfig())

	require.NoError(t, job.Run(context.Background()))

	// У Алисы завершены сессии в обеих ролях: значок первого обмена.
	u, err := store.Users().GetByID(context.Background(), shared.UserID(1))
	require.NoError(t, err)
	assert.True(t, u.HasBadge(reputation.BadgeFirstExchange))
	assert.Positive(t, pub.countOf(shared.EventBadgeUnlocked))
}

func TestRefreshBadgesJob_SecondRunPublishesNothingNew(t *testing.T) {
	store := memory.NewSeededStore()
	pub := &capturePublisher{}
	job := NewRefreshBadgesJob(store.Users(), store.Sessions(), store.Reviews(), pub, nil, DefaultRefreshBadgesConfig())

	require.NoError(t, job.Run(context.Background()))
	first := pub.countOf(shared.EventBadgeUnlocked)

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, first, pub.countOf(shared.EventBadgeUnlocked))
}
