package member

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/jpashop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaxPageSize caps list page sizes
const MaxPageSize = 100

// Service handles member registration and maintenance
type Service struct {
	memberRepo     member.MemberRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new member Service. publisher may be nil.
func NewService(memberRepo member.MemberRepository, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{memberRepo: memberRepo, eventPublisher: publisher, logger: logger}
}

// Join registers a new member. Names are unique.
func (s *Service) Join(ctx context.Context, req JoinMemberRequest) (*MemberResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "member", "join")
	defer span.End()

	address, err := req.Address.ToAddress()
	if err != nil {
		return nil, err
	}
	m, err := member.NewMember(req.Name, address)
	if err != nil {
		return nil, err
	}

	exists, err := s.memberRepo.ExistsByName(ctx, m.Name)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "already exists member")
	}

	if err := s.memberRepo.Save(ctx, m); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrMemberID, m.ID.String())
	s.publishDomainEvents(ctx, m)

	s.logger.Info("Member joined", zap.String("member_id", m.ID.String()))
	response := ToMemberResponse(m)
	return &response, nil
}

// GetByID retrieves a member by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToMemberResponse(m)
	return &response, nil
}

// List retrieves a page of members
func (s *Service) List(ctx context.Context, filter MemberListFilter) ([]MemberResponse, int64, error) {
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

	members, err := s.memberRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.memberRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMemberResponses(members), total, nil
}

// Update renames a member and, when an address is supplied, replaces it
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*UpdateMemberResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "member", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrMemberID, id.String())

	m, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldName := m.Name
	if err := m.Rename(req.Name); err != nil {
		return nil, err
	}
	if m.Name != oldName {
		exists, err := s.memberRepo.ExistsByName(ctx, m.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "already exists member")
		}
	}
	if req.Address != nil {
		address, err := req.Address.ToAddress()
		if err != nil {
			return nil, err
		}
		m.ChangeAddress(address)
	}

	if err := s.memberRepo.SaveWithLock(ctx, m); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishDomainEvents(ctx, m)

	return &UpdateMemberResponse{ID: m.ID, Name: m.Name}, nil
}

// publishDomainEvents publishes and clears the member's pending events
func (s *Service) publishDomainEvents(ctx context.Context, m *member.Member) {
	events := m.GetDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish member events", zap.Error(err))
	}
	m.ClearDomainEvents()
}
