package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// BunOrderQueryRepository implements OrderQueryRepository with bun, reading
// DTO rows straight from SQL without building aggregates
type BunOrderQueryRepository struct {
	db bun.IDB
}

// NewBunOrderQueryRepository creates a new BunOrderQueryRepository
func NewBunOrderQueryRepository(db bun.IDB) *BunOrderQueryRepository {
	return &BunOrderQueryRepository{db: db}
}

type orderHeaderRow struct {
	OrderID     uuid.UUID `bun:"order_id"`
	MemberName  string    `bun:"member_name"`
	OrderDate   time.Time `bun:"order_date"`
	OrderStatus string    `bun:"order_status"`
	City        string    `bun:"city"`
	Street      string    `bun:"street"`
	Zipcode     string    `bun:"zipcode"`
}

func (r orderHeaderRow) address() valueobject.Address {
	return valueobject.RestoreAddress(r.City, r.Street, r.Zipcode)
}

type orderLineRow struct {
	OrderID    uuid.UUID       `bun:"order_id"`
	ItemName   string          `bun:"item_name"`
	OrderPrice decimal.Decimal `bun:"order_price"`
	Count      int             `bun:"count"`
}

func (r orderLineRow) toDTO() ordering.OrderItemQueryDTO {
	return ordering.OrderItemQueryDTO{
		OrderID:    r.OrderID,
		ItemName:   r.ItemName,
		OrderPrice: r.OrderPrice,
		Count:      r.Count,
	}
}

type orderFlatRow struct {
	orderHeaderRow
	ItemName   string          `bun:"item_name"`
	OrderPrice decimal.Decimal `bun:"order_price"`
	Count      int             `bun:"count"`
}

// selectHeaders selects one row per order with its member name and delivery address
func (r *BunOrderQueryRepository) selectHeaders(offset, limit int) *bun.SelectQuery {
	q := r.db.NewSelect().
		TableExpr("orders AS o").
		ColumnExpr("o.id AS order_id").
		ColumnExpr("m.name AS member_name").
		ColumnExpr("o.order_date").
		ColumnExpr("o.status AS order_status").
		ColumnExpr("d.city, d.street, d.zipcode").
		Join("JOIN member AS m ON m.id = o.member_id").
		Join("JOIN delivery AS d ON d.order_id = o.id").
		OrderExpr("o.order_date DESC").
		OrderExpr("o.id ASC")
	return paginate(q, offset, limit)
}

// selectLines selects order lines joined with their item name
func (r *BunOrderQueryRepository) selectLines() *bun.SelectQuery {
	return r.db.NewSelect().
		TableExpr("order_item AS oi").
		ColumnExpr("oi.order_id").
		ColumnExpr("i.name AS item_name").
		ColumnExpr("oi.order_price").
		ColumnExpr("oi.count").
		Join("JOIN item AS i ON i.id = oi.item_id").
		OrderExpr("oi.id ASC")
}

func (r *BunOrderQueryRepository) findHeaders(ctx context.Context, offset, limit int) ([]orderHeaderRow, error) {
	var rows []orderHeaderRow
	if err := r.selectHeaders(offset, limit).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return rows, nil
}

// FindOrderQueryDTOs loads a page of orders, then the lines of each order
// with one query per order
func (r *BunOrderQueryRepository) FindOrderQueryDTOs(ctx context.Context, offset, limit int) ([]ordering.OrderQueryDTO, error) {
	headers, err := r.findHeaders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]ordering.OrderQueryDTO, len(headers))
	for i, h := range headers {
		var lines []orderLineRow
		if err := r.selectLines().Where("oi.order_id = ?", h.OrderID).Scan(ctx, &lines); err != nil {
			return nil, fmt.Errorf("select order items of %s: %w", h.OrderID, err)
		}
		result[i] = headerToDTO(h)
		for _, line := range lines {
			result[i].OrderItems = append(result[i].OrderItems, line.toDTO())
		}
	}
	return result, nil
}

// FindAllByDTOOptimized loads a page of orders, then the lines of all of them
// with a single IN query grouped by order ID
func (r *BunOrderQueryRepository) FindAllByDTOOptimized(ctx context.Context, offset, limit int) ([]ordering.OrderQueryDTO, error) {
	headers, err := r.findHeaders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []ordering.OrderQueryDTO{}, nil
	}

	ids := make([]uuid.UUID, len(headers))
	for i, h := range headers {
		ids[i] = h.OrderID
	}

	var lines []orderLineRow
	if err := r.selectLines().Where("oi.order_id IN (?)", bun.In(ids)).Scan(ctx, &lines); err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}

	byOrder := make(map[uuid.UUID][]ordering.OrderItemQueryDTO, len(headers))
	for _, line := range lines {
		byOrder[line.OrderID] = append(byOrder[line.OrderID], line.toDTO())
	}

	result := make([]ordering.OrderQueryDTO, len(headers))
	for i, h := range headers {
		result[i] = headerToDTO(h)
		if items, ok := byOrder[h.OrderID]; ok {
			result[i].OrderItems = items
		}
	}
	return result, nil
}

// FindAllByDTOFlat loads order lines joined with their order in one query.
// offset and limit apply to line rows.
func (r *BunOrderQueryRepository) FindAllByDTOFlat(ctx context.Context, offset, limit int) ([]ordering.OrderFlatDTO, error) {
	q := r.db.NewSelect().
		TableExpr("orders AS o").
		ColumnExpr("o.id AS order_id").
		ColumnExpr("m.name AS member_name").
		ColumnExpr("o.order_date").
		ColumnExpr("o.status AS order_status").
		ColumnExpr("d.city, d.street, d.zipcode").
		ColumnExpr("i.name AS item_name").
		ColumnExpr("oi.order_price").
		ColumnExpr("oi.count").
		Join("JOIN member AS m ON m.id = o.member_id").
		Join("JOIN delivery AS d ON d.order_id = o.id").
		Join("JOIN order_item AS oi ON oi.order_id = o.id").
		Join("JOIN item AS i ON i.id = oi.item_id").
		OrderExpr("o.order_date DESC").
		OrderExpr("o.id ASC").
		OrderExpr("oi.id ASC")

	var rows []orderFlatRow
	if err := paginate(q, offset, limit).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("select flat orders: %w", err)
	}

	result := make([]ordering.OrderFlatDTO, len(rows))
	for i, row := range rows {
		result[i] = ordering.OrderFlatDTO{
			OrderID:     row.OrderID,
			MemberName:  row.MemberName,
			OrderDate:   row.OrderDate,
			OrderStatus: ordering.OrderStatus(row.OrderStatus),
			Address:     row.address(),
			ItemName:    row.ItemName,
			OrderPrice:  row.OrderPrice,
			Count:       row.Count,
		}
	}
	return result, nil
}

// FindSimpleOrders loads a page of order summaries in one joined query
func (r *BunOrderQueryRepository) FindSimpleOrders(ctx context.Context, offset, limit int) ([]ordering.SimpleOrderDTO, error) {
	headers, err := r.findHeaders(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]ordering.SimpleOrderDTO, len(headers))
	for i, h := range headers {
		result[i] = ordering.SimpleOrderDTO{
			OrderID:     h.OrderID,
			MemberName:  h.MemberName,
			OrderDate:   h.OrderDate,
			OrderStatus: ordering.OrderStatus(h.OrderStatus),
			Address:     h.address(),
		}
	}
	return result, nil
}

func headerToDTO(h orderHeaderRow) ordering.OrderQueryDTO {
	return ordering.OrderQueryDTO{
		OrderID:     h.OrderID,
		MemberName:  h.MemberName,
		OrderDate:   h.OrderDate,
		OrderStatus: ordering.OrderStatus(h.OrderStatus),
		Address:     h.address(),
		OrderItems:  make([]ordering.OrderItemQueryDTO, 0),
	}
}

func paginate(q *bun.SelectQuery, offset, limit int) *bun.SelectQuery {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// Ensure BunOrderQueryRepository implements OrderQueryRepository
var _ ordering.OrderQueryRepository = (*BunOrderQueryRepository)(nil)
