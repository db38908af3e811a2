package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

func TestIdempotentHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate event IDs are skipped", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		inner := newTestHandler("OrderPlaced")
		handler := NewIdempotentHandler(inner, store, zap.NewNop())

		event := newTestEvent("OrderPlaced")
		require.NoError(t, handler.Handle(ctx, event))
		require.NoError(t, handler.Handle(ctx, event))
		require.NoError(t, handler.Handle(ctx, newTestEvent("OrderPlaced")))

		assert.Len(t, inner.getHandled(), 2)
		assert.Equal(t, IdempotencyStats{EventsProcessed: 2, EventsDuplicate: 1}, handler.Stats())
	})

	t.Run("failure releases the key for redelivery", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		inner := newTestHandler("OrderPlaced")
		inner.err = errors.New("kafka unavailable")
		handler := NewIdempotentHandler(inner, store, zap.NewNop())

		event := newTestEvent("OrderPlaced")
		require.Error(t, handler.Handle(ctx, event))

		inner.err = nil
		require.NoError(t, handler.Handle(ctx, event))

		assert.Len(t, inner.getHandled(), 2)
		assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsFailed: 1}, handler.Stats())
	})

	t.Run("store error still handles the event", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		store.On("MarkProcessed", mock.Anything, mock.AnythingOfType("string"), 24*time.Hour).
			Return(false, errors.New("redis down"))
		inner := newTestHandler()
		handler := NewIdempotentHandler(inner, store, zap.NewNop())

		require.NoError(t, handler.Handle(ctx, newTestEvent("OrderPlaced")))

		assert.Len(t, inner.getHandled(), 1)
		store.AssertExpectations(t)
	})

	t.Run("custom TTL is passed to the store", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		event := newTestEvent("OrderPlaced")
		store.On("MarkProcessed", mock.Anything, "event:"+event.EventID().String(), time.Minute).Return(true, nil)
		handler := NewIdempotentHandler(newTestHandler(), store, zap.NewNop(),
			WithIdempotencyConfig(shared.IdempotencyConfig{TTL: time.Minute, Enabled: true}))

		require.NoError(t, handler.Handle(ctx, event))
		store.AssertExpectations(t)
	})

	t.Run("disabled bypasses the store", func(t *testing.T) {
		store := new(MockIdempotencyStore)
		inner := newTestHandler()
		handler := NewIdempotentHandler(inner, store, zap.NewNop(),
			WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}))

		event := newTestEvent("OrderPlaced")
		require.NoError(t, handler.Handle(ctx, event))
		require.NoError(t, handler.Handle(ctx, event))

		assert.Len(t, inner.getHandled(), 2)
		store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("event types come from the wrapped handler", func(t *testing.T) {
		handler := NewIdempotentHandler(newTestHandler("A", "B"), new(MockIdempotencyStore), zap.NewNop())
		assert.Equal(t, []string{"A", "B"}, handler.EventTypes())
	})
}

func TestIdempotentHandler_ConcurrentDuplicates(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()
	inner := newTestHandler()
	handler := NewIdempotentHandler(inner, store, zap.NewNop())
	event := newTestEvent("OrderPlaced")

	const workers = 50
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = handler.Handle(context.Background(), event)
		}()
	}
	wg.Wait()

	assert.Len(t, inner.getHandled(), 1)
	assert.Equal(t, int64(workers-1), handler.Stats().EventsDuplicate)
}
