package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
// Member, Delivery and Items are only populated when joined or preloaded.
type OrderModel struct {
	AggregateModel
	MemberID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Member    *MemberModel         `gorm:"foreignKey:MemberID"`
	OrderDate time.Time            `gorm:"not null;index"`
	Status    ordering.OrderStatus `gorm:"type:varchar(10);not null;index"`
	Delivery  *DeliveryModel       `gorm:"foreignKey:OrderID"`
	Items     []OrderItemModel     `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// DeliveryModel is the persistence model for an order's delivery
type DeliveryModel struct {
	ID      uuid.UUID               `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:uq_delivery_order"`
	City    string                  `gorm:"type:varchar(100);not null;default:''"`
	Street  string                  `gorm:"type:varchar(200);not null;default:''"`
	Zipcode string                  `gorm:"type:varchar(20);not null;default:''"`
	Status  ordering.DeliveryStatus `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "delivery"
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Item       *ItemModel      `gorm:"foreignKey:ItemID"`
	OrderPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Count      int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_item"
}

// ToDomain converts the persistence model to a domain Order. Lines are
// included only if Items was loaded.
func (m *OrderModel) ToDomain() *ordering.Order {
	o := &ordering.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		MemberID:          m.MemberID,
		OrderDate:         m.OrderDate,
		Status:            m.Status,
		Items:             make([]ordering.OrderItem, 0, len(m.Items)),
	}
	if m.Member != nil {
		o.MemberName = m.Member.Name
	}
	if m.Delivery != nil {
		o.Delivery = ordering.Delivery{
			ID:      m.Delivery.ID,
			OrderID: m.Delivery.OrderID,
			Address: valueobject.RestoreAddress(m.Delivery.City, m.Delivery.Street, m.Delivery.Zipcode),
			Status:  m.Delivery.Status,
		}
	}
	for _, line := range m.Items {
		item := ordering.OrderItem{
			ID:         line.ID,
			OrderID:    line.OrderID,
			ItemID:     line.ItemID,
			OrderPrice: line.OrderPrice,
			Count:      line.Count,
		}
		if line.Item != nil {
			item.ItemName = line.Item.Name
		}
		o.Items = append(o.Items, item)
	}
	return o
}

// OrderModelFromDomain creates the order, delivery and line models for o.
// Member and Item associations are left nil so saving never touches them.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{
		MemberID:  o.MemberID,
		OrderDate: o.OrderDate,
		Status:    o.Status,
		Delivery: &DeliveryModel{
			ID:      o.Delivery.ID,
			OrderID: o.ID,
			City:    o.Delivery.Address.City(),
			Street:  o.Delivery.Address.Street(),
			Zipcode: o.Delivery.Address.Zipcode(),
			Status:  o.Delivery.Status,
		},
		Items: make([]OrderItemModel, 0, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	for _, line := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:         line.ID,
			OrderID:    o.ID,
			ItemID:     line.ItemID,
			OrderPrice: line.OrderPrice,
			Count:      line.Count,
		})
	}
	return m
}
