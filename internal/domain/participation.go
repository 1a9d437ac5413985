package domain

import (
	"context"
	"time"
)

// Participation records that a user joined an event. At most one exists per (user, event).
// swagger:model Participation
type Participation struct {
	UserID   string    `json:"user_id"`
	EventID  string    `json:"event_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// NewParticipation returns a Participation for the pair joined at joinedAt.
func NewParticipation(eventID, userID string, joinedAt time.Time) *Participation {
	return &Participation{
		UserID:   userID,
		EventID:  eventID,
		JoinedAt: joinedAt,
	}
}

// ParticipantList is the participant roster of one event.
// swagger:model ParticipantList
type ParticipantList struct {
	Count        int            `json:"count"`
	Participants []*UserSummary `json:"participants"`
}

// ParticipationRepository defines storage operations for participations.
type ParticipationRepository interface {
	// JoinWithinCapacity inserts p only if the event exists and has a free seat,
	// checking and inserting in one transaction. Returns ErrNotFound, ErrEventFull or ErrAlreadyJoined.
	JoinWithinCapacity(ctx context.Context, p *Participation) error
	// Delete removes the pair. Returns ErrNotParticipating when no row matched.
	Delete(ctx context.Context, eventID, userID string) error
	ListUsersByEventID(ctx context.Context, eventID string) ([]*UserSummary, error)
}

// ParticipationService defines join, cancel and roster operations.
type ParticipationService interface {
	Join(ctx context.Context, eventID, userID string) (*Participation, error)
	Cancel(ctx context.Context, eventID, userID string) error
	ListParticipants(ctx context.Context, eventID string) (*ParticipantList, error)
}
