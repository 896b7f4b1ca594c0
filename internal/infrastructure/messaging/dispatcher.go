package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DISPATCHER
// ══════════════════════════════════════════════════════════════════════════════

// Dispatcher routes events to named handlers with middleware support and
// retry with exponential backoff. It sits between the event bus and the
// application-level event handlers.
type Dispatcher struct {
	mu          sync.RWMutex
	bus         shared.EventBus
	handlers    map[shared.EventType][]HandlerRegistration
	middlewares []Middleware
	retry       RetryConfig
	log         *logger.Logger
	started     bool
}

// HandlerRegistration contains handler metadata.
type HandlerRegistration struct {
	// Name identifies the handler in logs.
	Name string

	// Handler is the function to invoke.
	Handler shared.EventHandler

	// MaxRetries overrides the dispatcher default when positive.
	MaxRetries int
}

// RetryConfig contains retry configuration.
type RetryConfig struct {
	// MaxRetries is the number of attempts after the first failure.
	MaxRetries int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff.
	MaxBackoff time.Duration

	// Multiplier is the backoff growth factor.
	Multiplier float64
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Multiplier:     2.0,
	}
}

// DispatcherConfig contains configuration for the Dispatcher.
type DispatcherConfig struct {
	// EventBus is the bus the dispatcher attaches to.
	EventBus shared.EventBus

	// Retry configures retry behaviour for failing handlers.
	Retry RetryConfig

	// Logger for structured logging.
	Logger *logger.Logger
}

// NewDispatcher creates a new event dispatcher.
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	if config.Logger == nil {
		config.Logger = logger.Default()
	}
	if config.Retry.Multiplier <= 1 {
		config.Retry = DefaultRetryConfig()
	}

	return &Dispatcher{
		bus:      config.EventBus,
		handlers: make(map[shared.EventType][]HandlerRegistration),
		retry:    config.Retry,
		log:      config.Logger.With(logger.Component("dispatcher")),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER REGISTRATION
// ══════════════════════════════════════════════════════════════════════════════

// Register registers a named handler for an event type.
func (d *Dispatcher) Register(eventType shared.EventType, name string, handler shared.EventHandler) error {
	if handler == nil {
		return ErrNilHandler
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return fmt.Errorf("messaging: cannot register %q after dispatcher start", name)
	}

	d.handlers[eventType] = append(d.handlers[eventType], HandlerRegistration{
		Name:    name,
		Handler: handler,
	})
	return nil
}

// Use adds middleware to the dispatcher. Middleware wraps every handler
// in registration order, outermost first.
func (d *Dispatcher) Use(middleware Middleware) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middlewares = append(d.middlewares, middleware)
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// Middleware wraps handler execution.
type Middleware func(shared.EventHandler) shared.EventHandler

// RecoveryMiddleware recovers from panics in handlers.
func RecoveryMiddleware(log *logger.Logger) Middleware {
	return func(next shared.EventHandler) shared.EventHandler {
		return func(event shared.Event) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("messaging: handler panic: %v", r)
					log.Error("handler panicked",
						logger.String("event_type", string(event.EventType())),
						logger.Any("panic", r),
					)
				}
			}()
			return next(event)
		}
	}
}

// LoggingMiddleware logs handler execution.
func LoggingMiddleware(log *logger.Logger) Middleware {
	return func(next shared.EventHandler) shared.EventHandler {
		return func(event shared.Event) error {
			start := time.Now()
			err := next(event)
			fields := []logger.Field{
				logger.String("event_type", string(event.EventType())),
				logger.Latency(time.Since(start)),
			}
			if err != nil {
				log.Error("event handler failed", append(fields, logger.Err(err))...)
			} else {
				log.Debug("event handled", fields...)
			}
			return err
		}
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DISPATCHING
// ══════════════════════════════════════════════════════════════════════════════

// Start attaches the dispatcher to the event bus. Registrations made after
// Start are rejected.
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return nil
	}
	d.started = true
	d.mu.Unlock()

	return d.bus.SubscribeAll(d.Dispatch)
}

// Dispatch routes an event to all handlers registered for its type.
// Handler failures are retried with exponential backoff; the last error
// of the last failing handler is returned.
func (d *Dispatcher) Dispatch(event shared.Event) error {
	d.mu.RLock()
	registrations := d.handlers[event.EventType()]
	middlewares := make([]Middleware, len(d.middlewares))
	copy(middlewares, d.middlewares)
	d.mu.RUnlock()

	var lastErr error
	for _, reg := range registrations {
		if err := d.executeHandler(event, reg, middlewares); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (d *Dispatcher) executeHandler(event shared.Event, reg HandlerRegistration, middlewares []Middleware) error {
	handler := reg.Handler
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	maxRetries := d.retry.MaxRetries
	if reg.MaxRetries > 0 {
		maxRetries = reg.MaxRetries
	}

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(d.calculateBackoff(attempt))
		}

		if err = handler(event); err == nil {
			return nil
		}

		d.log.Warn("handler attempt failed",
			logger.String("handler", reg.Name),
			logger.String("event_type", string(event.EventType())),
			logger.Int("attempt", attempt+1),
			logger.Err(err),
		)
	}

	d.log.Error("handler exhausted retries",
		logger.String("handler", reg.Name),
		logger.String("event_type", string(event.EventType())),
		logger.Err(err),
	)
	return err
}

func (d *Dispatcher) calculateBackoff(attempt int) time.Duration {
	backoff := float64(d.retry.InitialBackoff)
	for i := 1; i < attempt; i++ {
		backoff *= d.retry.Multiplier
	}
	if max := float64(d.retry.MaxBackoff); backoff > max {
		backoff = max
	}
	return time.Duration(backoff)
}
