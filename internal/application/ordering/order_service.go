package ordering

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// idempotencyKeyPrefix namespaces order placement keys in the idempotency
// store; keys are scoped per member as order:place:<member_id>:<key>
const idempotencyKeyPrefix = "order:place:"

// Service handles the order lifecycle
type Service struct {
	txScope           TransactionScope
	orderRepo         ordering.OrderRepository
	eventPublisher    shared.EventPublisher
	idempotencyStore  shared.IdempotencyStore
	idempotencyConfig shared.IdempotencyConfig
	logger            *zap.Logger
}

// NewService creates a new order Service
func NewService(txScope TransactionScope, orderRepo ordering.OrderRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		txScope:           txScope,
		orderRepo:         orderRepo,
		idempotencyConfig: shared.DefaultIdempotencyConfig(),
		logger:            logger,
	}
}

// WithEventPublisher sets the publisher for order events
func (s *Service) WithEventPublisher(publisher shared.EventPublisher) *Service {
	s.eventPublisher = publisher
	return s
}

// WithIdempotency enables duplicate detection for Place
func (s *Service) WithIdempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) *Service {
	s.idempotencyStore = store
	s.idempotencyConfig = cfg
	return s
}

// Place removes stock from every requested item and saves the order in one
// transaction, then publishes OrderPlaced. A repeated idempotency key fails
// with DUPLICATE_REQUEST.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrMemberID, req.MemberID.String(),
		telemetry.SpanAttrItemsCount, len(req.Lines),
	)

	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}

	key, err := s.claimIdempotencyKey(ctx, req.MemberID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var order *ordering.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		m, err := repos.MemberRepo().FindByID(ctx, req.MemberID)
		if err != nil {
			return err
		}

		items, err := loadItems(ctx, repos.ItemRepo(), lineItemIDs(req.Lines))
		if err != nil {
			return err
		}

		lines := make([]ordering.OrderItem, 0, len(req.Lines))
		for _, l := range req.Lines {
			item := items[l.ItemID]
			line, err := ordering.NewOrderItem(item, item.Price, l.Count)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		order, err = ordering.NewOrder(m, lines...)
		if err != nil {
			return err
		}

		if err := saveItems(ctx, repos.ItemRepo(), items); err != nil {
			return err
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		s.releaseIdempotencyKey(ctx, key)
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID.String(),
		telemetry.SpanAttrTotalPrice, order.TotalPrice().String(),
	)
	s.publishDomainEvents(ctx, order)
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("member_id", order.MemberID.String()),
		zap.String("total_price", order.TotalPrice().String()),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels an order and restores the stock of every line in one
// transaction, then publishes OrderCancelled
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "cancel")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, id.String())

	var order *ordering.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		items, err := loadItems(ctx, repos.ItemRepo(), order.ItemIDs())
		if err != nil {
			return err
		}
		if err := order.Cancel(items); err != nil {
			return err
		}

		if err := saveItems(ctx, repos.ItemRepo(), items); err != nil {
			return err
		}
		return repos.OrderRepo().SaveWithLock(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.publishDomainEvents(ctx, order)
	s.logger.Info("Order cancelled", zap.String("order_id", order.ID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// CompleteDelivery marks the order's delivery as completed
func (s *Service) CompleteDelivery(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "complete_delivery")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, id.String())

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.CompleteDelivery(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order with its delivery and lines
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// Search finds orders by member name substring and status
func (s *Service) Search(ctx context.Context, req OrderSearchRequest) ([]OrderResponse, error) {
	status, err := ordering.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.Search(ctx, ordering.OrderSearch{MemberName: req.MemberName, Status: status}.Normalized())
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

func (s *Service) claimIdempotencyKey(ctx context.Context, memberID uuid.UUID, key string) (string, error) {
	if key == "" || s.idempotencyStore == nil || !s.idempotencyConfig.Enabled {
		return "", nil
	}
	key = idempotencyKeyPrefix + memberID.String() + ":" + key
	claimed, err := s.idempotencyStore.MarkProcessed(ctx, key, s.idempotencyConfig.TTL)
	if err != nil {
		s.logger.Warn("Idempotency store unavailable, placing order without duplicate check",
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
		return "", nil
	}
	if !claimed {
		return "", shared.ErrDuplicateRequest
	}
	return key, nil
}

func (s *Service) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.idempotencyStore.Release(ctx, key); err != nil {
		s.logger.Warn("Failed to release idempotency key",
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
	}
}

// publishDomainEvents publishes and clears the order's pending events
func (s *Service) publishDomainEvents(ctx context.Context, order *ordering.Order) {
	events := order.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
	order.ClearDomainEvents()
}

func lineItemIDs(lines []OrderLineRequest) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	return ids
}

// loadItems fetches items in one query and fails if any ID is missing
func loadItems(ctx context.Context, repo catalog.ItemRepository, ids []uuid.UUID) (map[uuid.UUID]*catalog.Item, error) {
	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make(map[uuid.UUID]*catalog.Item, len(found))
	for i := range found {
		items[found[i].ID] = &found[i]
	}
	for _, id := range ids {
		if _, ok := items[id]; !ok {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, fmt.Sprintf("item %s not found", id))
		}
	}
	return items, nil
}

// saveItems writes items in ID order so concurrent orders lock rows in the same sequence
func saveItems(ctx context.Context, repo catalog.ItemRepository, items map[uuid.UUID]*catalog.Item) error {
	ids := slices.SortedFunc(maps.Keys(items), func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	for _, id := range ids {
		if err := repo.SaveWithLock(ctx, items[id]); err != nil {
			return err
		}
	}
	return nil
}
