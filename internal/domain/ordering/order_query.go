package ordering

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderQueryDTO is a flattened read model of an order
type OrderQueryDTO struct {
	OrderID     uuid.UUID
	MemberName  string
	OrderDate   time.Time
	OrderStatus OrderStatus
	Address     valueobject.Address
	OrderItems  []OrderItemQueryDTO
}

// OrderItemQueryDTO is a flattened read model of an order line
type OrderItemQueryDTO struct {
	OrderID    uuid.UUID
	ItemName   string
	OrderPrice decimal.Decimal
	Count      int
}

// OrderFlatDTO is one row of the order × line join
type OrderFlatDTO struct {
	OrderID     uuid.UUID
	MemberName  string
	OrderDate   time.Time
	OrderStatus OrderStatus
	Address     valueobject.Address
	ItemName    string
	OrderPrice  decimal.Decimal
	Count       int
}

// SimpleOrderDTO is an order summary without lines
type SimpleOrderDTO struct {
	OrderID     uuid.UUID
	MemberName  string
	OrderDate   time.Time
	OrderStatus OrderStatus
	Address     valueobject.Address
}

// OrderQueryRepository reads order projections directly, bypassing the aggregate
type OrderQueryRepository interface {
	// FindOrderQueryDTOs loads a page of orders, then the lines of each order
	// with one query per order
	FindOrderQueryDTOs(ctx context.Context, offset, limit int) ([]OrderQueryDTO, error)

	// FindAllByDTOOptimized loads a page of orders, then the lines of all of
	// them with a single IN query keyed by order ID
	FindAllByDTOOptimized(ctx context.Context, offset, limit int) ([]OrderQueryDTO, error)

	// FindAllByDTOFlat loads every order line joined with its order in one query
	FindAllByDTOFlat(ctx context.Context, offset, limit int) ([]OrderFlatDTO, error)

	// FindSimpleOrders loads a page of order summaries in one joined query
	FindSimpleOrders(ctx context.Context, offset, limit int) ([]SimpleOrderDTO, error)
}

// GroupFlatRows regroups flat join rows into one OrderQueryDTO per order,
// preserving the order in which orders first appear
func GroupFlatRows(rows []OrderFlatDTO) []OrderQueryDTO {
	index := make(map[uuid.UUID]int)
	result := make([]OrderQueryDTO, 0)
	for _, row := range rows {
		i, ok := index[row.OrderID]
		if !ok {
			i = len(result)
			index[row.OrderID] = i
			result = append(result, OrderQueryDTO{
				OrderID:     row.OrderID,
				MemberName:  row.MemberName,
				OrderDate:   row.OrderDate,
				OrderStatus: row.OrderStatus,
				Address:     row.Address,
				OrderItems:  make([]OrderItemQueryDTO, 0),
			})
		}
		result[i].OrderItems = append(result[i].OrderItems, OrderItemQueryDTO{
			OrderID:    row.OrderID,
			ItemName:   row.ItemName,
			OrderPrice: row.OrderPrice,
			Count:      row.Count,
		})
	}
	return result
}
