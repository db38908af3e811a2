package ordering

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// MaxSearchResults caps the rows returned by OrderRepository.Search
const MaxSearchResults = 1000

// OrderSearch is a dynamic order predicate. Empty fields do not constrain the result.
type OrderSearch struct {
	MemberName string
	Status     OrderStatus
}

// Normalized trims the member name
func (s OrderSearch) Normalized() OrderSearch {
	s.MemberName = strings.TrimSpace(s.MemberName)
	return s
}

// OrderRepository defines the interface for order persistence.
// Orders are always returned with their member name and delivery populated.
type OrderRepository interface {
	// FindByID finds an order with its delivery and lines
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// Search finds orders matching search with their lines, newest first,
	// capped at MaxSearchResults
	Search(ctx context.Context, search OrderSearch) ([]Order, error)

	// FindAllWithMemberDelivery loads a page of orders with member and delivery
	// in one joined query. Lines are not loaded.
	FindAllWithMemberDelivery(ctx context.Context, offset, limit int) ([]Order, error)

	// FindAllWithItems loads a page of orders and then all of their lines with
	// a single batched query
	FindAllWithItems(ctx context.Context, offset, limit int) ([]Order, error)

	// Save creates an order together with its delivery and lines
	Save(ctx context.Context, order *Order) error

	// SaveWithLock updates the order status and delivery with optimistic locking
	SaveWithLock(ctx context.Context, order *Order) error
}
