package ordering

import (
	"context"

	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/ordering"
)

// TransactionScope runs a unit of work against repositories that share one
// database transaction. An error returned by fn rolls everything back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories touched when placing or
// cancelling an order. All of them share the same underlying transaction.
//
// Stock lives on the Item aggregate, so order placement writes items and the
// order in the same transaction; member rows are only read.
type TransactionalRepositories interface {
	MemberRepo() member.MemberRepository
	ItemRepo() catalog.ItemRepository
	OrderRepo() ordering.OrderRepository
}

// NoOpTransactionScope runs the function directly against the given
// repositories without a transaction. Used by tests.
type NoOpTransactionScope struct {
	memberRepo member.MemberRepository
	itemRepo   catalog.ItemRepository
	orderRepo  ordering.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	memberRepo member.MemberRepository,
	itemRepo catalog.ItemRepository,
	orderRepo ordering.OrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{memberRepo: memberRepo, itemRepo: itemRepo, orderRepo: orderRepo}
}

// Execute runs fn without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// MemberRepo returns the member repository
func (s *NoOpTransactionScope) MemberRepo() member.MemberRepository { return s.memberRepo }

// ItemRepo returns the item repository
func (s *NoOpTransactionScope) ItemRepo() catalog.ItemRepository { return s.itemRepo }

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() ordering.OrderRepository { return s.orderRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
