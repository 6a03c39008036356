package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hotelops/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func newMemoryStore(t *testing.T) *cache.InMemoryIdempotencyStore {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	inner := newTestHandler("ShiftClosed")
	h := NewIdempotentHandler(inner, newMemoryStore(t), zap.NewNop())

	event := newTestEvent("ShiftClosed")
	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), newTestEvent("ShiftClosed")))

	assert.Len(t, inner.getHandled(), 2)
	assert.Equal(t, IdempotencyStats{EventsProcessed: 2, EventsDuplicate: 1}, h.Stats())
}

func TestIdempotentHandler_FailureReleasesKey(t *testing.T) {
	inner := newTestHandler("ShiftClosed")
	inner.err = errors.New("upload failed")
	h := NewIdempotentHandler(inner, newMemoryStore(t), zap.NewNop())

	event := newTestEvent("ShiftClosed")
	assert.Error(t, h.Handle(context.Background(), event))

	inner.err = nil
	require.NoError(t, h.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 2)
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsFailed: 1}, h.Stats())
}

func TestIdempotentHandler_StoreErrorStillHandles(t *testing.T) {
	store := new(mockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))

	inner := newTestHandler("ShiftApproved")
	h := NewIdempotentHandler(inner, store, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), newTestEvent("ShiftApproved")))
	assert.Len(t, inner.getHandled(), 1)
	store.AssertExpectations(t)
}

func TestIdempotentHandler_KeyPrefixAndTTL(t *testing.T) {
	store := new(mockIdempotencyStore)
	event := newTestEvent("ShiftClosed")
	store.On("MarkProcessed", mock.Anything, "archive:"+event.EventID().String(), time.Hour).Return(true, nil)

	h := NewIdempotentHandler(newTestHandler("ShiftClosed"), store, zap.NewNop(),
		WithIdempotencyConfig(IdempotencyConfig{Enabled: true, TTL: time.Hour, KeyPrefix: "archive"}))

	require.NoError(t, h.Handle(context.Background(), event))
	store.AssertExpectations(t)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := new(mockIdempotencyStore)
	inner := newTestHandler("ShiftClosed")
	h := NewIdempotentHandler(inner, store, zap.NewNop(), WithIdempotencyConfig(IdempotencyConfig{}))

	event := newTestEvent("ShiftClosed")
	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 2)
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotentHandler_DelegatesTypesAndAsync(t *testing.T) {
	inner := newTestHandler("ShiftClosed", "ShiftApproved")
	inner.async = true
	h := NewIdempotentHandler(inner, newMemoryStore(t), zap.NewNop())

	assert.Equal(t, []string{"ShiftClosed", "ShiftApproved"}, h.EventTypes())
	assert.True(t, h.Async())
}
