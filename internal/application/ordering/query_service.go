package ordering

import (
	"context"

	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// Page window defaults for the order views
const (
	DefaultViewLimit = 100
	MaxViewLimit     = 100
)

// PageWindow is an offset/limit window
type PageWindow struct {
	Offset int `form:"offset" binding:"omitempty,min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1"`
}

// Normalized applies the default and maximum limit
func (w PageWindow) Normalized() PageWindow {
	if w.Offset < 0 {
		w.Offset = 0
	}
	if w.Limit <= 0 {
		w.Limit = DefaultViewLimit
	}
	if w.Limit > MaxViewLimit {
		w.Limit = MaxViewLimit
	}
	return w
}

// QueryService exposes the order read strategies side by side. The entity
// strategies go through the write repository; the DTO strategies read
// projections directly.
type QueryService struct {
	orderRepo ordering.OrderRepository
	queryRepo ordering.OrderQueryRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(orderRepo ordering.OrderRepository, queryRepo ordering.OrderQueryRepository) *QueryService {
	return &QueryService{orderRepo: orderRepo, queryRepo: queryRepo}
}

// ListEntities loads order aggregates with their lines and maps them to views
func (s *QueryService) ListEntities(ctx context.Context) ([]OrderView, error) {
	ctx, span := startQuerySpan(ctx, "entities")
	defer span.End()

	orders, err := s.orderRepo.Search(ctx, ordering.OrderSearch{})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return entityViews(orders), nil
}

// ListWithMemberDelivery loads orders joined with member and delivery and
// their lines in one batched lookup, without paging
func (s *QueryService) ListWithMemberDelivery(ctx context.Context) ([]OrderView, error) {
	ctx, span := startQuerySpan(ctx, "fetch_join")
	defer span.End()

	orders, err := s.orderRepo.FindAllWithItems(ctx, 0, ordering.MaxSearchResults)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return entityViews(orders), nil
}

// ListWithItemsPaged pages over orders and loads the page's lines in one batched lookup
func (s *QueryService) ListWithItemsPaged(ctx context.Context, window PageWindow) ([]OrderView, error) {
	ctx, span := startQuerySpan(ctx, "fetch_join_paged")
	defer span.End()

	window = window.Normalized()
	orders, err := s.orderRepo.FindAllWithItems(ctx, window.Offset, window.Limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return entityViews(orders), nil
}

// ListDTOs reads order projections with one line query per order
func (s *QueryService) ListDTOs(ctx context.Context, window PageWindow) ([]OrderView, error) {
	ctx, span := startQuerySpan(ctx, "dto")
	defer span.End()

	window = window.Normalized()
	dtos, err := s.queryRepo.FindOrderQueryDTOs(ctx, window.Offset, window.Limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return queryViews(dtos), nil
}

// ListDTOsOptimized reads order projections and all their lines in two queries
func (s *QueryService) ListDTOsOptimized(ctx context.Context, window PageWindow) ([]OrderView, error) {
	ctx, span := startQuerySpan(ctx, "dto_optimized")
	defer span.End()

	window = window.Normalized()
	dtos, err := s.queryRepo.FindAllByDTOOptimized(ctx, window.Offset, window.Limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return queryViews(dtos), nil
}

// ListDTOsFlat reads one joined row per order line and regroups them by order.
// The window applies to line rows.
func (s *QueryService) ListDTOsFlat(ctx context.Context, window PageWindow) ([]OrderView, error) {
	ctx, span := startQuerySpan(ctx, "dto_flat")
	defer span.End()

	window = window.Normalized()
	rows, err := s.queryRepo.FindAllByDTOFlat(ctx, window.Offset, window.Limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return queryViews(ordering.GroupFlatRows(rows)), nil
}

// ListSimpleEntities loads orders joined with member and delivery and maps
// them to summaries
func (s *QueryService) ListSimpleEntities(ctx context.Context, window PageWindow) ([]SimpleOrderView, error) {
	ctx, span := startQuerySpan(ctx, "simple_entities")
	defer span.End()

	window = window.Normalized()
	orders, err := s.orderRepo.FindAllWithMemberDelivery(ctx, window.Offset, window.Limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	views := make([]SimpleOrderView, len(orders))
	for i := range orders {
		views[i] = simpleViewFromEntity(&orders[i])
	}
	return views, nil
}

// ListSimple reads order summaries directly in one joined query
func (s *QueryService) ListSimple(ctx context.Context, window PageWindow) ([]SimpleOrderView, error) {
	ctx, span := startQuerySpan(ctx, "simple")
	defer span.End()

	window = window.Normalized()
	dtos, err := s.queryRepo.FindSimpleOrders(ctx, window.Offset, window.Limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	views := make([]SimpleOrderView, len(dtos))
	for i, dto := range dtos {
		views[i] = simpleViewFromQuery(dto)
	}
	return views, nil
}

func startQuerySpan(ctx context.Context, strategy string) (context.Context, trace.Span) {
	return telemetry.StartServiceSpan(ctx, "order_query", strategy,
		telemetry.WithAttribute(telemetry.SpanAttrStrategy, strategy))
}

func entityViews(orders []ordering.Order) []OrderView {
	views := make([]OrderView, len(orders))
	for i := range orders {
		views[i] = orderViewFromEntity(&orders[i])
	}
	return views
}

func queryViews(dtos []ordering.OrderQueryDTO) []OrderView {
	views := make([]OrderView, len(dtos))
	for i, dto := range dtos {
		views[i] = orderViewFromQuery(dto)
	}
	return views
}
