package event

import (
	"github.com/jpashop/backend/internal/domain/catalog"
	"github.com/jpashop/backend/internal/domain/member"
	"github.com/jpashop/backend/internal/domain/ordering"
)

// RegisterAllEvents registers every domain event type with serializer
func RegisterAllEvents(serializer *EventSerializer) {
	serializer.Register(member.EventTypeMemberJoined, &member.MemberJoinedEvent{})
	serializer.Register(member.EventTypeMemberRenamed, &member.MemberRenamedEvent{})

	serializer.Register(catalog.EventTypeItemCreated, &catalog.ItemCreatedEvent{})
	serializer.Register(catalog.EventTypeItemUpdated, &catalog.ItemUpdatedEvent{})

	serializer.Register(ordering.EventTypeOrderPlaced, &ordering.OrderPlacedEvent{})
	serializer.Register(ordering.EventTypeOrderCancelled, &ordering.OrderCancelledEvent{})
	serializer.Register(ordering.EventTypeDeliveryCompleted, &ordering.DeliveryCompletedEvent{})
}
