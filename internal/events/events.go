// Package events publishes roster changes to external sinks. Sinks are
// write-only: the registry never reads its state back from them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"school-activities/internal/models"
)

type EventType string

const (
	EventSignedUp     EventType = "participant.signed_up"
	EventUnregistered EventType = "participant.unregistered"
)

// RosterEvent describes one successful signup or unregister.
type RosterEvent struct {
	ID              string    `json:"id"`
	Type            EventType `json:"type"`
	Activity        string    `json:"activity"`
	Schedule        string    `json:"schedule,omitempty"`
	Email           string    `json:"email"`
	RosterSize      int       `json:"roster_size"`
	MaxParticipants int       `json:"max_participants"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// NewRosterEvent builds an event from the activity state after the change.
func NewRosterEvent(t EventType, a models.Activity, email string) RosterEvent {
	return RosterEvent{
		ID:              uuid.NewString(),
		Type:            t,
		Activity:        a.Name,
		Schedule:        a.Schedule,
		Email:           email,
		RosterSize:      len(a.Participants),
		MaxParticipants: a.MaxParticipants,
		OccurredAt:      time.Now().UTC(),
	}
}

// Publisher delivers roster events to one sink.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, e RosterEvent) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Name() string { return "nop" }
func (Nop) Publish(context.Context, RosterEvent) error { return nil }
func (Nop) Close() error { return nil }
