package ordering

import (
	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type of Order events
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced       = "OrderPlaced"
	EventTypeOrderCancelled    = "OrderCancelled"
	EventTypeDeliveryCompleted = "DeliveryCompleted"
)

// OrderLineInfo describes one line of an order in event payloads
type OrderLineInfo struct {
	ItemID     uuid.UUID       `json:"item_id"`
	ItemName   string          `json:"item_name"`
	OrderPrice decimal.Decimal `json:"order_price"`
	Count      int             `json:"count"`
}

func lineInfos(items []OrderItem) []OrderLineInfo {
	lines := make([]OrderLineInfo, len(items))
	for i, item := range items {
		lines[i] = OrderLineInfo{
			ItemID:     item.ItemID,
			ItemName:   item.ItemName,
			OrderPrice: item.OrderPrice,
			Count:      item.Count,
		}
	}
	return lines
}

// OrderPlacedEvent is published when an order is placed
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	MemberID   uuid.UUID       `json:"member_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Lines      []OrderLineInfo `json:"lines"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		MemberID:        o.MemberID,
		TotalPrice:      o.TotalPrice(),
		Lines:           lineInfos(o.Items),
	}
}

// OrderCancelledEvent is published when an order is cancelled and its stock restored
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID       `json:"order_id"`
	MemberID uuid.UUID       `json:"member_id"`
	Lines    []OrderLineInfo `json:"lines"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		MemberID:        o.MemberID,
		Lines:           lineInfos(o.Items),
	}
}

// DeliveryCompletedEvent is published when an order's delivery completes
type DeliveryCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	DeliveryID uuid.UUID `json:"delivery_id"`
}

// NewDeliveryCompletedEvent creates a new DeliveryCompletedEvent
func NewDeliveryCompletedEvent(o *Order) *DeliveryCompletedEvent {
	return &DeliveryCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDeliveryCompleted, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		DeliveryID:      o.Delivery.ID,
	}
}
