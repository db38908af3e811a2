package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusOrder  OrderStatus = "ORDER"
	OrderStatusCancel OrderStatus = "CANCEL"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	return s == OrderStatusOrder || s == OrderStatusCancel
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus parses an order status. The empty string parses to the empty status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	if s == "" {
		return "", nil
	}
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("unknown order status %q", s))
	}
	return status, nil
}

// Order is the aggregate root for a placed order. It owns its lines and its delivery.
type Order struct {
	shared.BaseAggregateRoot
	MemberID   uuid.UUID
	MemberName string
	OrderDate  time.Time
	Status     OrderStatus
	Delivery   Delivery
	Items      []OrderItem
}

// NewOrder places an order for member. The delivery is shipped to the member's
// current address, and every line must already have taken its stock.
func NewOrder(m *member.Member, items ...OrderItem) (*Order, error) {
	if m == nil || m.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MemberID:          m.ID,
		MemberName:        m.Name,
		OrderDate:         time.Now(),
		Status:            OrderStatusOrder,
		Items:             make([]OrderItem, 0, len(items)),
	}
	order.Delivery = NewDelivery(order.ID, m.Address)
	for _, item := range items {
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// Cancel cancels the order and returns the stock of every line to its item.
// items must contain every item referenced by the order, keyed by ID.
func (o *Order) Cancel(items map[uuid.UUID]*catalog.Item) error {
	if o.Delivery.Status == DeliveryStatusComp {
		return shared.ErrDeliveryCompleted
	}
	if o.Status == OrderStatusCancel {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Order is already cancelled")
	}

	for i := range o.Items {
		item, ok := items[o.Items[i].ItemID]
		if !ok {
			return shared.NewDomainError(shared.ErrNotFound.Code,
				fmt.Sprintf("item %s of order %s not found", o.Items[i].ItemID, o.ID))
		}
		if err := o.Items[i].Cancel(item); err != nil {
			return err
		}
	}

	o.Status = OrderStatusCancel
	o.Touch()
	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// CompleteDelivery marks the delivery as completed. A cancelled order cannot be delivered.
func (o *Order) CompleteDelivery() error {
	if o.Status == OrderStatusCancel {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Cannot deliver a cancelled order")
	}
	if err := o.Delivery.Complete(); err != nil {
		return err
	}
	o.Touch()
	o.AddDomainEvent(NewDeliveryCompletedEvent(o))
	return nil
}

// TotalPrice returns the sum of all line totals
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// ItemIDs returns the distinct item IDs referenced by the order's lines
func (o *Order) ItemIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ItemID]; ok {
			continue
		}
		seen[item.ItemID] = struct{}{}
		ids = append(ids, item.ItemID)
	}
	return ids
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancel
}
