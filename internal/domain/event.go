package domain

import (
	"context"
	"time"
)

// Event is a happening users can join, bounded by MaxParticipants.
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	ImageURL        *string   `json:"image_url"`
	MaxParticipants int       `json:"max_participants"`
	EventDate       time.Time `json:"event_date"`
	IsDone          bool      `json:"is_done"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(title string, description, imageURL *string, maxParticipants int, eventDate time.Time, createdBy string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Title:           title,
		Description:     description,
		ImageURL:        imageURL,
		MaxParticipants: maxParticipants,
		EventDate:       eventDate,
		CreatedBy:       createdBy,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// EventWithCount is an event together with its current number of participants.
// swagger:model EventWithCount
type EventWithCount struct {
	Event
	ParticipantCount int `json:"participant_count"`
}

// EventUpdate carries the mutable event fields. Nil fields are left unchanged.
type EventUpdate struct {
	Title           *string
	Description     *string
	ImageURL        *string
	MaxParticipants *int
	EventDate       *time.Time
}

// Empty reports whether no field is set.
func (u EventUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.ImageURL == nil && u.MaxParticipants == nil && u.EventDate == nil
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListWithParticipantCount(ctx context.Context) ([]*EventWithCount, error)
	// Update applies upd under the event row lock. It returns ErrCapacityBelowParticipants
	// when the new capacity is lower than the number of current participants.
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	SetDone(ctx context.Context, id string, isDone bool) error
	Delete(ctx context.Context, id string) error
}

// EventService defines event lifecycle operations.
type EventService interface {
	ListEvents(ctx context.Context) ([]*EventWithCount, error)
	CreateEvent(ctx context.Context, actor Principal, event *Event) error
	UpdateEvent(ctx context.Context, actor Principal, eventID string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, actor Principal, eventID string) error
	SetDone(ctx context.Context, actor Principal, eventID string, isDone bool) error
}
