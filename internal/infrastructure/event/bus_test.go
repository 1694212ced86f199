package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stitchpos/backend/internal/domain/sales"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.events
}

func completedEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	txn, err := sales.NewTransaction(uuid.New(), "TXN-20260831-0001", sales.PaymentCash, valueobject.THB)
	require.NoError(t, err)
	return sales.NewTransactionCompletedEvent(txn)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers to handler subscribed for the type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zaptest.NewLogger(t))
		handler := &recordingHandler{types: []string{sales.EventTypeTransactionCompleted}}
		bus.Subscribe(handler)

		event := completedEvent(t)
		err := bus.Publish(context.Background(), event)

		require.NoError(t, err)
		require.Len(t, handler.received(), 1)
		assert.Equal(t, event.EventID(), handler.received()[0].EventID())
	})

	t.Run("skips handler subscribed for another type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zaptest.NewLogger(t))
		handler := &recordingHandler{types: []string{sales.EventTypeTransactionRefunded}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), completedEvent(t))

		require.NoError(t, err)
		assert.Empty(t, handler.received())
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zaptest.NewLogger(t))
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), completedEvent(t))

		require.NoError(t, err)
		assert.Len(t, handler.received(), 1)
	})

	t.Run("handler error does not stop other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zaptest.NewLogger(t))
		failing := &recordingHandler{err: errors.New("boom")}
		healthy := &recordingHandler{}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), completedEvent(t))

		require.NoError(t, err)
		assert.Len(t, healthy.received(), 1)
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zaptest.NewLogger(t))
		panicking := &recordingHandler{panics: true}
		healthy := &recordingHandler{}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), completedEvent(t))
		})
		assert.Len(t, healthy.received(), 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	t.Run("removed handler no longer receives events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zaptest.NewLogger(t))
		handler := &recordingHandler{types: []string{sales.EventTypeTransactionCompleted}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(context.Background(), completedEvent(t))

		require.NoError(t, err)
		assert.Empty(t, handler.received())
	})
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	t.Run("start and stop succeed", func(t *testing.T) {
		bus := NewInMemoryEventBus(zaptest.NewLogger(t))

		assert.NoError(t, bus.Start(context.Background()))
		assert.NoError(t, bus.Stop(context.Background()))
	})
}
