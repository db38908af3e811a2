package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMemberRepository implements MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by its ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a member by exact name
func (r *GormMemberRepository) FindByName(ctx context.Context, name string) (*member.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByName reports whether a member with the given name exists
func (r *GormMemberRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all members matching the filter
func (r *GormMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]member.Member, error) {
	var memberModels []models.MemberModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.MemberModel{}), filter)
	if err := query.Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]member.Member, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// Count counts members matching the filter
func (r *GormMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.MemberModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a member. A duplicate name maps to ErrAlreadyExists.
func (r *GormMemberRepository) Save(ctx context.Context, m *member.Member) error {
	model := models.MemberModelFromDomain(m)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainErrorWithCause(shared.ErrAlreadyExists.Code, "already exists member", err)
		}
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

// SaveWithLock updates a member only if its stored version still matches,
// then advances the version on both the row and the aggregate
func (r *GormMemberRepository) SaveWithLock(ctx context.Context, m *member.Member) error {
	result := r.db.WithContext(ctx).
		Model(&models.MemberModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version).
		Updates(map[string]any{
			"name":       m.Name,
			"city":       m.Address.City(),
			"street":     m.Address.Street(),
			"zipcode":    m.Address.Zipcode(),
			"version":    m.Version + 1,
			"updated_at": m.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.NewDomainErrorWithCause(shared.ErrAlreadyExists.Code, "already exists member", result.Error)
		}
		return fmt.Errorf("update member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrConcurrencyConflict.Code, "The member has been modified by another transaction")
	}
	m.Version++
	return nil
}

// applyFilter applies filter options to the query
func (r *GormMemberRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, MemberSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).Order("id")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMemberRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(containsFold("name"), likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "city":
			query = query.Where("city = ?", value)
		case "zipcode":
			query = query.Where("zipcode = ?", value)
		}
	}
	return query
}

// Ensure GormMemberRepository implements MemberRepository
var _ member.MemberRepository = (*GormMemberRepository)(nil)
