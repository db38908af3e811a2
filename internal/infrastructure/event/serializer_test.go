package event

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placedOrder(t *testing.T) *ordering.Order {
	t.Helper()
	m, err := member.NewMember("kim", valueobject.MustNewAddress("Seoul", "Teheran-ro 1", "06000"))
	require.NoError(t, err)
	book, err := catalog.NewBook("JPA", decimal.NewFromInt(10000), 10, "Kim", "978-1")
	require.NoError(t, err)
	line, err := ordering.NewOrderItem(book, book.Price, 2)
	require.NoError(t, err)
	order, err := ordering.NewOrder(m, line)
	require.NoError(t, err)
	return order
}

func TestEventSerializer_Envelope(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	order := placedOrder(t)
	placed := order.GetDomainEvents()[0]

	data, err := serializer.Serialize(placed)
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, ordering.EventTypeOrderPlaced, env.EventType)
	assert.Equal(t, order.ID, env.AggregateID)
	assert.Equal(t, ordering.AggregateTypeOrder, env.AggregateType)
	assert.Contains(t, string(env.Payload), `"total_price":"20000"`)

	decoded, err := serializer.Deserialize(data)
	require.NoError(t, err)
	event, ok := decoded.(*ordering.OrderPlacedEvent)
	require.True(t, ok)
	assert.Equal(t, order.ID, event.OrderID)
	assert.Equal(t, placed.EventID(), event.EventID())
	assert.True(t, event.TotalPrice.Equal(decimal.NewFromInt(20000)))
	require.Len(t, event.Lines, 1)
	assert.Equal(t, 2, event.Lines[0].Count)
}

func TestEventSerializer_Errors(t *testing.T) {
	serializer := NewEventSerializer()

	t.Run("unknown type", func(t *testing.T) {
		data, err := serializer.Serialize(newTestEvent("Unregistered"))
		require.NoError(t, err)

		_, err = serializer.Deserialize(data)
		assert.ErrorContains(t, err, "unknown event type: Unregistered")
	})

	t.Run("malformed envelope", func(t *testing.T) {
		_, err := serializer.Deserialize([]byte("{"))
		assert.ErrorContains(t, err, "failed to unmarshal envelope")
	})

	t.Run("malformed payload", func(t *testing.T) {
		serializer.Register("Test", &testEvent{})
		data, err := json.Marshal(Envelope{EventID: uuid.New(), EventType: "Test", Payload: json.RawMessage(`[1]`)})
		require.NoError(t, err)

		_, err = serializer.Deserialize(data)
		assert.ErrorContains(t, err, "failed to unmarshal Test payload")
	})
}

func TestRegisterAllEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	for _, eventType := range []string{
		member.EventTypeMemberJoined,
		member.EventTypeMemberRenamed,
		catalog.EventTypeItemCreated,
		catalog.EventTypeItemUpdated,
		ordering.EventTypeOrderPlaced,
		ordering.EventTypeOrderCancelled,
		ordering.EventTypeDeliveryCompleted,
	} {
		assert.True(t, serializer.IsRegistered(eventType), eventType)
	}
}
