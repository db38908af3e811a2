package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByIDs finds multiple items in one query. Missing IDs are skipped.
func (r *GormItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Item, error) {
	if len(ids) == 0 {
		return []catalog.Item{}, nil
	}

	var itemModels []models.ItemModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toDomainItems(itemModels)
}

// FindAll finds all items matching the filter
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var itemModels []models.ItemModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)
	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	return toDomainItems(itemModels)
}

// Count counts items matching the filter
func (r *GormItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ItemModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	if err := r.db.WithContext(ctx).Save(models.ItemModelFromDomain(item)).Error; err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// SaveWithLock updates an item only if its stored version still matches,
// then advances the version on both the row and the aggregate
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *catalog.Item) error {
	result := r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Where("id = ? AND version = ?", item.ID, item.Version).
		Updates(map[string]any{
			"name":           item.Name,
			"price":          item.Price,
			"stock_quantity": item.StockQuantity,
			"author":         item.Author,
			"isbn":           item.ISBN,
			"artist":         item.Artist,
			"etc":            item.Etc,
			"director":       item.Director,
			"actor":          item.Actor,
			"version":        item.Version + 1,
			"updated_at":     item.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrConcurrencyConflict.Code, "The item has been modified by another transaction")
	}
	item.Version++
	return nil
}

func toDomainItems(itemModels []models.ItemModel) ([]catalog.Item, error) {
	items := make([]catalog.Item, len(itemModels))
	for i := range itemModels {
		item, err := itemModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		items[i] = *item
	}
	return items, nil
}

// applyFilter applies filter options to the query
func (r *GormItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ItemSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).Order("id")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(containsFold("name"), likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			if kind, ok := value.(catalog.Kind); ok && kind.IsValid() {
				query = query.Where("dtype = ?", kind.DType())
			}
		case "in_stock":
			if value == true {
				query = query.Where("stock_quantity > 0")
			} else {
				query = query.Where("stock_quantity = 0")
			}
		}
	}
	return query
}

// Ensure GormItemRepository implements ItemRepository
var _ catalog.ItemRepository = (*GormItemRepository)(nil)
