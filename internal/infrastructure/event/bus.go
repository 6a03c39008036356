package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AsyncHandler is implemented by handlers that must not run on the
// publisher's goroutine, such as report uploads
type AsyncHandler interface {
	Async() bool
}

// InMemoryEventBus implements EventBus with in-memory pub/sub.
// Handler errors are logged and never returned to the publisher.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish dispatches events to their handlers. Synchronous handlers run
// before Publish returns; async handlers run in their own goroutine with a
// context detached from the caller's cancellation.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if isAsync(handler) && b.running.Load() {
				b.wg.Add(1)
				go func(handler shared.EventHandler, event shared.DomainEvent) {
					defer b.wg.Done()
					b.dispatch(context.WithoutCancel(ctx), handler, event)
				}(handler, event)
				continue
			}
			b.dispatch(ctx, handler, event)
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
		zap.Bool("async", isAsync(handler)),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start enables async dispatch. Before Start, async handlers run inline.
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop waits for in-flight async handlers or until ctx is done
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	ctx, span := telemetry.StartSpan(ctx, "event."+event.EventType(),
		telemetry.WithSpanKind(trace.SpanKindConsumer),
		telemetry.WithAttribute("event.id", event.EventID().String()),
		telemetry.WithAttribute("event.aggregate_id", event.AggregateID().String()),
		telemetry.WithAttribute("event.handler", fmt.Sprintf("%T", handler)),
	)
	defer span.End()

	if err := b.safeHandle(ctx, handler, event); err != nil {
		telemetry.RecordError(span, err)
		b.logger.Error("handler failed to process event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("handler", fmt.Sprintf("%T", handler)),
			zap.Error(err),
		)
	}
}

func (b *InMemoryEventBus) safeHandle(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

func isAsync(handler shared.EventHandler) bool {
	a, ok := handler.(AsyncHandler)
	return ok && a.Async()
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
