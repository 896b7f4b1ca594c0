package messaging

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
)

func timeOf(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func newSyncBus() *InMemoryEventBus {
	return NewInMemoryEventBus(InMemoryEventBusConfig{
		AsyncMode:     false,
		EnableMetrics: true,
	})
}

func TestInMemoryEventBus_DeliversToTypedSubscriber(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var got shared.EventType
	err := bus.Subscribe(shared.EventSessionCompleted, func(e shared.Event) error {
		got = e.EventType()
		return nil
	})
	require.NoError(t, err)

	event := shared.NewSessionCompletedEvent(1, 2, 1, "guitar", timeOf(t, "2024-08-15T10:00:00Z"))
	require.NoError(t, bus.Publish(event))

	assert.Equal(t, shared.EventSessionCompleted, got)
}

func TestInMemoryEventBus_TypedSubscriberIgnoresOtherEvents(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var calls int32
	require.NoError(t, bus.Subscribe(shared.EventReviewSubmitted, func(e shared.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewMessageSentEvent(1, 1, 2)))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestInMemoryEventBus_GlobalSubscriberSeesEverything(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var calls int32
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewMessageSentEvent(1, 1, 2)))
	require.NoError(t, bus.Publish(shared.NewUserRegisteredEvent(6, "frank@example.com", "Frank")))

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestInMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewMessageSentEvent(1, 1, 2))
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestInMemoryEventBus_MetricsCountPublishes(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error { return nil }))
	require.NoError(t, bus.Publish(shared.NewMessageSentEvent(1, 1, 2)))
	require.NoError(t, bus.Publish(shared.NewMessageSentEvent(1, 2, 1)))

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.PublishedTotal[shared.EventMessageSent])
	assert.Equal(t, int64(2), snap.HandlerExecutions)
	assert.Equal(t, int64(2), snap.HandlerSuccesses)
}

func TestDispatcher_RetriesUntilSuccess(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	d := NewDispatcher(DispatcherConfig{
		EventBus: bus,
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialBackoff: 1,
			MaxBackoff:     1,
			Multiplier:     2.0,
		},
	})

	var attempts int32
	require.NoError(t, d.Register(shared.EventMessageSent, "flaky", func(e shared.Event) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}))
	require.NoError(t, d.Start())

	require.NoError(t, bus.Publish(shared.NewMessageSentEvent(1, 1, 2)))
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestDispatcher_RecoveryMiddlewareTurnsPanicIntoError(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	d := NewDispatcher(DispatcherConfig{
		EventBus: bus,
		Retry: RetryConfig{
			MaxRetries:     0,
			InitialBackoff: 1,
			MaxBackoff:     1,
			Multiplier:     2.0,
		},
	})
	d.Use(RecoveryMiddleware(d.log))

	require.NoError(t, d.Register(shared.EventMessageSent, "panics", func(e shared.Event) error {
		panic("boom")
	}))

	err := d.Dispatch(shared.NewMessageSentEvent(1, 1, 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestDispatcher_RejectsRegistrationAfterStart(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	d := NewDispatcher(DispatcherConfig{EventBus: bus})
	require.NoError(t, d.Start())

	err := d.Register(shared.EventMessageSent, "late", func(e shared.Event) error { return nil })
	assert.Error(t, err)
}
