package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Events are collected on the
// aggregate and handed to the event bus once the surrounding transaction
// commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent carries the envelope fields; concrete events embed it and
// add their own payload.
type BaseDomainEvent struct {
	Event      uuid.UUID `json:"id"`
	Kind       string    `json:"type"`
	At         time.Time `json:"timestamp"`
	Source     uuid.UUID `json:"aggregate_id"`
	SourceKind string    `json:"aggregate_type"`
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.Event }
func (e *BaseDomainEvent) EventType() string      { return e.Kind }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.At }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.Source }
func (e *BaseDomainEvent) AggregateType() string  { return e.SourceKind }

// NewBaseDomainEvent stamps a fresh event id and the current UTC time.
func NewBaseDomainEvent(eventType, aggregateType string, aggregateID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		Event:      uuid.New(),
		Kind:       eventType,
		At:         time.Now().UTC(),
		Source:     aggregateID,
		SourceKind: aggregateType,
	}
}
