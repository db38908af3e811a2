package ordering

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order. OrderPrice is the unit price captured at order time.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ItemID     uuid.UUID
	ItemName   string
	OrderPrice decimal.Decimal
	Count      int
}

// NewOrderItem creates an order line and takes count units out of item's stock
func NewOrderItem(item *catalog.Item, orderPrice decimal.Decimal, count int) (OrderItem, error) {
	if item == nil {
		return OrderItem{}, shared.NewDomainError("INVALID_ITEM", "Item is required")
	}
	if count <= 0 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Count must be positive")
	}
	if orderPrice.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Order price cannot be negative")
	}
	if err := item.RemoveStock(count); err != nil {
		return OrderItem{}, err
	}

	return OrderItem{
		ID:         uuid.New(),
		ItemID:     item.ID,
		ItemName:   item.Name,
		OrderPrice: orderPrice,
		Count:      count,
	}, nil
}

// TotalPrice returns OrderPrice * Count
func (oi OrderItem) TotalPrice() decimal.Decimal {
	return oi.OrderPrice.Mul(decimal.NewFromInt(int64(oi.Count)))
}

// Cancel returns the line's quantity to item's stock
func (oi OrderItem) Cancel(item *catalog.Item) error {
	if item == nil || item.ID != oi.ItemID {
		return shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("order line expects item %s", oi.ItemID))
	}
	return item.AddStock(oi.Count)
}
