package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/shared"
)

// ItemRepository defines the interface for item persistence.
// Filter keys understood by FindAll and Count: "kind" (Kind), "in_stock" (bool).
type ItemRepository interface {
	// FindByID finds an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByIDs finds multiple items in one query. Missing IDs are skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Item, error)

	// FindAll finds all items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)

	// Count counts items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *Item) error

	// SaveWithLock saves an item with optimistic locking (version check)
	SaveWithLock(ctx context.Context, item *Item) error
}
