package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one line of a new order
type OrderLineRequest struct {
	ItemID uuid.UUID `json:"item_id" binding:"required"`
	Count  int       `json:"count" binding:"required,min=1"`
}

// PlaceOrderRequest represents a request to place an order.
// IdempotencyKey comes from the Idempotency-Key header.
type PlaceOrderRequest struct {
	MemberID       uuid.UUID          `json:"member_id" binding:"required"`
	Lines          []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
	IdempotencyKey string             `json:"-"`
}

// OrderSearchRequest represents order search query parameters
type OrderSearchRequest struct {
	MemberName string `form:"member_name" binding:"max=100"`
	Status     string `form:"status" binding:"omitempty,oneof=ORDER CANCEL"`
}

// AddressResponse is the wire form of an address
type AddressResponse struct {
	City    string `json:"city"`
	Street  string `json:"street"`
	Zipcode string `json:"zipcode"`
}

func toAddressResponse(a valueobject.Address) AddressResponse {
	return AddressResponse{City: a.City(), Street: a.Street(), Zipcode: a.Zipcode()}
}

// DeliveryResponse represents a delivery in API responses
type DeliveryResponse struct {
	ID      uuid.UUID       `json:"id"`
	Status  string          `json:"status"`
	Address AddressResponse `json:"address"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     uuid.UUID       `json:"item_id"`
	ItemName   string          `json:"item_name"`
	OrderPrice decimal.Decimal `json:"order_price"`
	Count      int             `json:"count"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse represents an order with its delivery and lines
type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	MemberID   uuid.UUID           `json:"member_id"`
	MemberName string              `json:"member_name"`
	OrderDate  time.Time           `json:"order_date"`
	Status     string              `json:"status"`
	Delivery   DeliveryResponse    `json:"delivery"`
	Items      []OrderItemResponse `json:"items"`
	TotalPrice decimal.Decimal     `json:"total_price"`
	Version    int                 `json:"version"`
}

// ToOrderResponse converts an order aggregate to its response DTO
func ToOrderResponse(o *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:         item.ID,
			ItemID:     item.ItemID,
			ItemName:   item.ItemName,
			OrderPrice: item.OrderPrice,
			Count:      item.Count,
			TotalPrice: item.TotalPrice(),
		}
	}
	return OrderResponse{
		ID:         o.ID,
		MemberID:   o.MemberID,
		MemberName: o.MemberName,
		OrderDate:  o.OrderDate,
		Status:     o.Status.String(),
		Delivery: DeliveryResponse{
			ID:      o.Delivery.ID,
			Status:  string(o.Delivery.Status),
			Address: toAddressResponse(o.Delivery.Address),
		},
		Items:      items,
		TotalPrice: o.TotalPrice(),
		Version:    o.Version,
	}
}

// ToOrderResponses converts order aggregates to response DTOs
func ToOrderResponses(orders []ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// OrderLineView is an order line in the read views
type OrderLineView struct {
	ItemName   string          `json:"item_name"`
	OrderPrice decimal.Decimal `json:"order_price"`
	Count      int             `json:"count"`
}

// OrderView is the shape shared by every order read strategy
type OrderView struct {
	OrderID     uuid.UUID       `json:"order_id"`
	MemberName  string          `json:"name"`
	OrderDate   time.Time       `json:"order_date"`
	OrderStatus string          `json:"order_status"`
	Address     AddressResponse `json:"address"`
	OrderItems  []OrderLineView `json:"order_items"`
}

// SimpleOrderView is an order summary without lines
type SimpleOrderView struct {
	OrderID     uuid.UUID       `json:"order_id"`
	MemberName  string          `json:"name"`
	OrderDate   time.Time       `json:"order_date"`
	OrderStatus string          `json:"order_status"`
	Address     AddressResponse `json:"address"`
}

func orderViewFromEntity(o *ordering.Order) OrderView {
	lines := make([]OrderLineView, len(o.Items))
	for i, item := range o.Items {
		lines[i] = OrderLineView{ItemName: item.ItemName, OrderPrice: item.OrderPrice, Count: item.Count}
	}
	return OrderView{
		OrderID:     o.ID,
		MemberName:  o.MemberName,
		OrderDate:   o.OrderDate,
		OrderStatus: o.Status.String(),
		Address:     toAddressResponse(o.Delivery.Address),
		OrderItems:  lines,
	}
}

func orderViewFromQuery(dto ordering.OrderQueryDTO) OrderView {
	lines := make([]OrderLineView, len(dto.OrderItems))
	for i, item := range dto.OrderItems {
		lines[i] = OrderLineView{ItemName: item.ItemName, OrderPrice: item.OrderPrice, Count: item.Count}
	}
	return OrderView{
		OrderID:     dto.OrderID,
		MemberName:  dto.MemberName,
		OrderDate:   dto.OrderDate,
		OrderStatus: dto.OrderStatus.String(),
		Address:     toAddressResponse(dto.Address),
		OrderItems:  lines,
	}
}

func simpleViewFromEntity(o *ordering.Order) SimpleOrderView {
	return SimpleOrderView{
		OrderID:     o.ID,
		MemberName:  o.MemberName,
		OrderDate:   o.OrderDate,
		OrderStatus: o.Status.String(),
		Address:     toAddressResponse(o.Delivery.Address),
	}
}

func simpleViewFromQuery(dto ordering.SimpleOrderDTO) SimpleOrderView {
	return SimpleOrderView{
		OrderID:     dto.OrderID,
		MemberName:  dto.MemberName,
		OrderDate:   dto.OrderDate,
		OrderStatus: dto.OrderStatus.String(),
		Address:     toAddressResponse(dto.Address),
	}
}
