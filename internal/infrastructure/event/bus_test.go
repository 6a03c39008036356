package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "CashierShift", uuid.New())}
}

type testHandler struct {
	eventTypes []string
	async      bool
	err        error
	panicWith  any
	block      chan struct{}

	mu      sync.Mutex
	handled []shared.DomainEvent
	ctxErrs []error
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.block != nil {
		<-h.block
	}
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	h.ctxErrs = append(h.ctxErrs, ctx.Err())
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }
func (h *testHandler) Async() bool          { return h.async }

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("ShiftStarted")
	bus.Subscribe(handler)

	started := newTestEvent("ShiftStarted")
	require.NoError(t, bus.Publish(context.Background(), started, newTestEvent("ShiftClosed")))

	handled := handler.getHandled()
	require.Len(t, handled, 1)
	assert.Equal(t, started, handled[0])
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("ShiftStarted")
	bus.Subscribe(handler, "ShiftClosed")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ShiftStarted"), newTestEvent("ShiftClosed")))

	handled := handler.getHandled()
	require.Len(t, handled, 1)
	assert.Equal(t, "ShiftClosed", handled[0].EventType())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("ShiftClosed")
	failing.err = errors.New("storage down")
	panicking := newTestHandler("ShiftClosed")
	panicking.panicWith = "boom"
	ok := newTestHandler("ShiftClosed")

	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(ok)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ShiftClosed")))

	assert.Len(t, ok.getHandled(), 1)
	assert.Equal(t, 2, recorded.FilterMessage("handler failed to process event").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("ShiftStarted")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ShiftStarted")))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_AsyncHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))

	handler := newTestHandler("ShiftClosed")
	handler.async = true
	handler.block = make(chan struct{})
	bus.Subscribe(handler)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("ShiftClosed")))
	cancel()

	// Publish returned while the handler is still blocked
	assert.Empty(t, handler.getHandled())

	close(handler.block)
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))

	require.Len(t, handler.getHandled(), 1)
	handler.mu.Lock()
	assert.NoError(t, handler.ctxErrs[0], "async handler must not see the caller's cancellation")
	handler.mu.Unlock()
}

func TestInMemoryEventBus_AsyncRunsInlineWhenNotStarted(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("ShiftClosed")
	handler.async = true
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ShiftClosed")))
	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StopTimesOut(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))

	handler := newTestHandler("ShiftClosed")
	handler.async = true
	handler.block = make(chan struct{})
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("ShiftClosed")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bus.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(handler.block)
}
