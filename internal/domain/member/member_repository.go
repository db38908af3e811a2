package member

import (
	"context"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/shared"
)

// MemberRepository defines the interface for member persistence
type MemberRepository interface {
	// FindByID finds a member by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// FindByName finds a member by exact name
	FindByName(ctx context.Context, name string) (*Member, error)

	// ExistsByName reports whether a member with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// FindAll finds all members matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Member, error)

	// Count counts members matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a member
	Save(ctx context.Context, member *Member) error

	// SaveWithLock saves a member with optimistic locking (version check)
	SaveWithLock(ctx context.Context, member *Member) error
}
