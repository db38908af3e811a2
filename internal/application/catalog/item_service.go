package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaxPageSize caps list page sizes
const MaxPageSize = 100

// ItemService handles catalog maintenance
type ItemService struct {
	itemRepo       catalog.ItemRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewItemService creates a new ItemService. publisher may be nil.
func NewItemService(itemRepo catalog.ItemRepository, publisher shared.EventPublisher, logger *zap.Logger) *ItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemService{itemRepo: itemRepo, eventPublisher: publisher, logger: logger}
}

// Create creates an item of the requested kind
func (s *ItemService) Create(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "create")
	defer span.End()

	kind, err := catalog.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrItemKind, kind.String())

	var item *catalog.Item
	switch kind {
	case catalog.KindBook:
		item, err = catalog.NewBook(req.Name, req.Price, req.StockQuantity, req.Author, req.ISBN)
	case catalog.KindAlbum:
		item, err = catalog.NewAlbum(req.Name, req.Price, req.StockQuantity, req.Artist, req.Etc)
	case catalog.KindMovie:
		item, err = catalog.NewMovie(req.Name, req.Price, req.StockQuantity, req.Director, req.Actor)
	}
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishDomainEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// GetByID retrieves an item by ID
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToItemResponse(item)
	return &response, nil
}

// List retrieves a page of items
func (s *ItemService) List(ctx context.Context, filter ItemListFilter) ([]ItemResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   strings.TrimSpace(filter.Search),
		Filters:  make(map[string]any),
	}
	if filter.Kind != "" {
		kind, err := catalog.ParseKind(filter.Kind)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["kind"] = kind
	}
	if filter.InStock != nil {
		domainFilter.Filters["in_stock"] = *filter.InStock
	}

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToItemResponses(items), total, nil
}

// Update changes the name, price, stock and kind attributes of an item
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "item", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrItemID, id.String())

	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.Update(req.Name, req.Price, req.StockQuantity); err != nil {
		return nil, err
	}
	switch item.Kind {
	case catalog.KindBook:
		err = item.SetBookDetails(req.Author, req.ISBN)
	case catalog.KindAlbum:
		err = item.SetAlbumDetails(req.Artist, req.Etc)
	case catalog.KindMovie:
		err = item.SetMovieDetails(req.Director, req.Actor)
	}
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishDomainEvents(ctx, item)

	response := ToItemResponse(item)
	return &response, nil
}

// AddStock adds units to an item's stock
func (s *ItemService) AddStock(ctx context.Context, id uuid.UUID, req AddStockRequest) (*ItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.AddStock(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Stock added",
		zap.String("item_id", item.ID.String()),
		zap.Int("quantity", req.Quantity),
		zap.Int("stock", item.StockQuantity),
	)
	response := ToItemResponse(item)
	return &response, nil
}

// CountSoldOut counts items whose stock is zero
func (s *ItemService) CountSoldOut(ctx context.Context) (int64, error) {
	return s.itemRepo.Count(ctx, shared.Filter{Filters: map[string]any{"in_stock": false}})
}

// publishDomainEvents publishes and clears the item's pending events
func (s *ItemService) publishDomainEvents(ctx context.Context, item *catalog.Item) {
	events := item.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish item events", zap.Error(err))
	}
	item.ClearDomainEvents()
}
