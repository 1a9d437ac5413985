package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/domain"
)

type participationService struct {
	userRepo          domain.UserRepository
	eventRepo         domain.EventRepository
	participationRepo domain.ParticipationRepository
	emailService      domain.EmailService
	logger            *slog.Logger
	contextTimeout    time.Duration
}

// NewParticipationService creates a ParticipationService with the given repositories.
func NewParticipationService(
	userRepo domain.UserRepository,
	eventRepo domain.EventRepository,
	participationRepo domain.ParticipationRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ParticipationService {
	return &participationService{
		userRepo:          userRepo,
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		emailService:      emailService,
		logger:            logger,
		contextTimeout:    timeout,
	}
}

func (s *participationService) getUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *participationService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// Join adds the user to the event. The capacity check and the insert happen in a
// single repository transaction; a full event yields ErrEventFull and a repeated
// join yields ErrAlreadyJoined.
func (s *participationService) Join(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := domain.NewParticipation(eventID, userID, time.Now().UTC())
	if err := s.participationRepo.JoinWithinCapacity(ctx, p); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrEventFull),
			errors.Is(err, domain.ErrAlreadyJoined),
			errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("join event: %w", err)
	}

	s.sendJoinConfirmation(ctx, user, eventID)
	return p, nil
}

func (s *participationService) sendJoinConfirmation(ctx context.Context, user *domain.User, eventID string) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		s.logger.WarnContext(ctx, "join confirmation skipped", "event_id", eventID, "err", err)
		return
	}
	data := &domain.JoinConfirmationEmailData{
		Email:      user.Email,
		Name:       user.Name,
		EventTitle: event.Title,
		EventDate:  event.EventDate,
	}
	if err := s.emailService.SendJoinConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "join confirmation email failed", "event_id", eventID, "user_id", user.ID, "err", err)
	}
}

func (s *participationService) Cancel(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.participationRepo.Delete(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotParticipating) {
			return domain.ErrNotParticipating
		}
		return fmt.Errorf("cancel participation: %w", err)
	}
	return nil
}

func (s *participationService) ListParticipants(ctx context.Context, eventID string) (*domain.ParticipantList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	users, err := s.participationRepo.ListUsersByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if users == nil {
		users = []*domain.UserSummary{}
	}
	return &domain.ParticipantList{Count: len(users), Participants: users}, nil
}
