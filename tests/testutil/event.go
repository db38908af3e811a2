package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jpashop/backend/internal/domain/shared"
)

// RecordingHandler records every event it receives
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
}

// NewRecordingHandler subscribes to eventTypes, or to every event when empty
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

// EventTypes returns the subscribed event types
func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records event
func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return nil
}

// Types returns the types of the recorded events in arrival order
func (h *RecordingHandler) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, len(h.handled))
	for i, e := range h.handled {
		types[i] = e.EventType()
	}
	return types
}

// Count returns how many events were recorded
func (h *RecordingHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// WaitForEventCount waits until the handler has recorded at least count events
func WaitForEventCount(t *testing.T, h *RecordingHandler, count int, timeout time.Duration) bool {
	t.Helper()
	return WaitForCondition(t, func() bool { return h.Count() >= count }, timeout, 10*time.Millisecond)
}
