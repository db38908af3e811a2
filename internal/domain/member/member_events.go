package member

import (
	"github.com/google/uuid"
	"github.com/jpashop/backend/internal/domain/shared"
)

// AggregateTypeMember is the aggregate type of Member events
const AggregateTypeMember = "Member"

// Event type constants
const (
	EventTypeMemberJoined  = "MemberJoined"
	EventTypeMemberRenamed = "MemberRenamed"
)

// MemberJoinedEvent is published when a new member joins
type MemberJoinedEvent struct {
	shared.BaseDomainEvent
	MemberID uuid.UUID `json:"member_id"`
	Name     string    `json:"name"`
}

// NewMemberJoinedEvent creates a new MemberJoinedEvent
func NewMemberJoinedEvent(m *Member) *MemberJoinedEvent {
	return &MemberJoinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberJoined, AggregateTypeMember, m.ID),
		MemberID:        m.ID,
		Name:            m.Name,
	}
}

// MemberRenamedEvent is published when a member changes their name
type MemberRenamedEvent struct {
	shared.BaseDomainEvent
	MemberID uuid.UUID `json:"member_id"`
	OldName  string    `json:"old_name"`
	NewName  string    `json:"new_name"`
}

// NewMemberRenamedEvent creates a new MemberRenamedEvent
func NewMemberRenamedEvent(m *Member, oldName string) *MemberRenamedEvent {
	return &MemberRenamedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberRenamed, AggregateTypeMember, m.ID),
		MemberID:        m.ID,
		OldName:         oldName,
		NewName:         m.Name,
	}
}
