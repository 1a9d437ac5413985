package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.EventWithCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListWithParticipantCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.EventWithCount{}
	}
	return events, nil
}

// CreateEvent stores event with the actor as creator. Any authenticated user may create events.
func (s *eventService) CreateEvent(ctx context.Context, actor domain.Principal, event *domain.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor.UserID == "" {
		return fmt.Errorf("event creator is required")
	}
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if event.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max_participants must be positive", domain.ErrInvalidInput)
	}
	if event.EventDate.IsZero() {
		return fmt.Errorf("%w: event_date is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	event.CreatedBy = actor.UserID
	event.IsDone = false
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// loadManaged returns the event if it exists and actor is its creator or an admin.
func (s *eventService) loadManaged(ctx context.Context, actor domain.Principal, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !actor.CanManage(event.CreatedBy) {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actor domain.Principal, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		upd.Title = &title
	}
	if upd.MaxParticipants != nil && *upd.MaxParticipants <= 0 {
		return nil, fmt.Errorf("%w: max_participants must be positive", domain.ErrInvalidInput)
	}

	if _, err := s.loadManaged(ctx, actor, eventID); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrCapacityBelowParticipants) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actor domain.Principal, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.loadManaged(ctx, actor, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// SetDone flips the completion flag. Restricted to the creator or an admin.
func (s *eventService) SetDone(ctx context.Context, actor domain.Principal, eventID string, isDone bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.loadManaged(ctx, actor, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.SetDone(ctx, eventID, isDone); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set event done: %w", err)
	}
	return nil
}
