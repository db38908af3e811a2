package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/ordering"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
// Member and delivery are fetched with joins; lines are fetched with a
// batched preload, so no query is issued per order.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// withMemberDelivery joins the member and delivery of each order
func (r *GormOrderRepository) withMemberDelivery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Joins("Member").
		Joins("Delivery")
}

// FindByID finds an order with its delivery and lines
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.withMemberDelivery(ctx).
		Preload("Items.Item").
		Where("orders.id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Search finds orders matching search, newest first, capped at MaxSearchResults
func (r *GormOrderRepository) Search(ctx context.Context, search ordering.OrderSearch) ([]ordering.Order, error) {
	search = search.Normalized()
	query := r.withMemberDelivery(ctx).Preload("Items.Item")
	if search.Status != "" {
		query = query.Where("orders.status = ?", search.Status)
	}
	if search.MemberName != "" {
		query = query.Where(containsFold(`"Member"."name"`), likePattern(search.MemberName))
	}

	var orderModels []models.OrderModel
	if err := query.
		Order("orders.order_date DESC").
		Order("orders.id").
		Limit(ordering.MaxSearchResults).
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// FindAllWithMemberDelivery loads a page of orders with member and delivery in one query
func (r *GormOrderRepository) FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := r.page(r.withMemberDelivery(ctx), offset, limit).Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

// FindAllWithItems loads a page of orders, then all of their lines (and the
// lines' items) with one IN query per association
func (r *GormOrderRepository) FindAllWithItems(ctx context.Context, offset, limit int) ([]ordering.Order, error) {
	var orderModels []models.OrderModel
	if err := r.page(r.withMemberDelivery(ctx), offset, limit).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_item.id") }).
		Preload("Items.Item").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	return toDomainOrders(orderModels), nil
}

func (r *GormOrderRepository) page(query *gorm.DB, offset, limit int) *gorm.DB {
	query = query.Order("orders.order_date DESC").Order("orders.id")
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

// Save creates an order together with its delivery and lines.
// Member and item rows are never written through the order.
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := tx.Create(model.Delivery).Error; err != nil {
			return fmt.Errorf("insert delivery: %w", err)
		}
		if len(model.Items) > 0 {
			if err := tx.Omit("Item").Create(&model.Items).Error; err != nil {
				return fmt.Errorf("insert order items: %w", err)
			}
		}
		return nil
	})
}

// SaveWithLock updates the order status and delivery status if the stored
// version still matches, then advances the version
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *ordering.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]any{
				"status":     order.Status,
				"version":    order.Version + 1,
				"updated_at": order.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("update order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.ErrConcurrencyConflict.Code, "The order has been modified by another transaction")
		}

		if err := tx.Model(&models.DeliveryModel{}).
			Where("order_id = ?", order.ID).
			Update("status", order.Delivery.Status).Error; err != nil {
			return fmt.Errorf("update delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	order.Version++
	return nil
}

func toDomainOrders(orderModels []models.OrderModel) []ordering.Order {
	orders := make([]ordering.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
