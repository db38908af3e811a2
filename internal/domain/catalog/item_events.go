package catalog

import (
	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeItem is the aggregate type of Item events
const AggregateTypeItem = "Item"

// Event type constants
const (
	EventTypeItemCreated = "ItemCreated"
	EventTypeItemUpdated = "ItemUpdated"
)

// ItemCreatedEvent is published when an item is added to the catalog
type ItemCreatedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID       `json:"item_id"`
	Kind          Kind            `json:"kind"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}

// NewItemCreatedEvent creates a new ItemCreatedEvent
func NewItemCreatedEvent(i *Item) *ItemCreatedEvent {
	return &ItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemCreated, AggregateTypeItem, i.ID),
		ItemID:          i.ID,
		Kind:            i.Kind,
		Name:            i.Name,
		Price:           i.Price,
		StockQuantity:   i.StockQuantity,
	}
}

// ItemUpdatedEvent is published when an item's name, price or stock is edited
type ItemUpdatedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID       `json:"item_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}

// NewItemUpdatedEvent creates a new ItemUpdatedEvent
func NewItemUpdatedEvent(i *Item) *ItemUpdatedEvent {
	return &ItemUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeItemUpdated, AggregateTypeItem, i.ID),
		ItemID:          i.ID,
		Name:            i.Name,
		Price:           i.Price,
		StockQuantity:   i.StockQuantity,
	}
}
