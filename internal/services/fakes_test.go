package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"eventhub/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// store is a mutex-guarded in-memory database shared by the fake repositories,
// so that a participation can see both users and events.
type store struct {
	mu             sync.Mutex
	users          map[string]*domain.User
	events         map[string]*domain.Event
	participations map[string]map[string]time.Time // event id -> user id -> joined at
	nextID         int
}

func newStore() *store {
	return &store{
		users:          make(map[string]*domain.User),
		events:         make(map[string]*domain.Event),
		participations: make(map[string]map[string]time.Time),
		nextID:         1,
	}
}

func (s *store) id(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, s.nextID)
	s.nextID++
	return id
}

// addUser inserts a user directly and returns it.
func (s *store) addUser(email, name string, isAdmin bool) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	u := domain.NewUser(email, name, isAdmin, now, now)
	u.ID = s.id("user")
	s.users[u.ID] = u
	return u
}

// addEvent inserts an event directly and returns it.
func (s *store) addEvent(title string, maxParticipants int, createdBy string) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	e := domain.NewEvent(title, nil, nil, maxParticipants, now.Add(24*time.Hour), createdBy, now, now)
	e.ID = s.id("ev")
	s.events[e.ID] = e
	return e
}

func (s *store) countLocked(eventID string) int {
	return len(s.participations[eventID])
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	db  *store
	err error // if set, every call returns this error
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = f.db.id("user")
	f.db.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, u := range f.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if u, ok := f.db.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	db  *store
	err error // if set, Create and ListWithParticipantCount return this error
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.users[e.CreatedBy]; !ok {
		return domain.ErrUserNotFound
	}
	e.ID = f.db.id("ev")
	f.db.events[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if e, ok := f.db.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListWithParticipantCount(_ context.Context) ([]*domain.EventWithCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*domain.EventWithCount
	for _, e := range f.db.events {
		out = append(out, &domain.EventWithCount{Event: *e, ParticipantCount: f.db.countLocked(e.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeEventRepo) Update(_ context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	e, ok := f.db.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.MaxParticipants != nil && *upd.MaxParticipants < f.db.countLocked(id) {
		return nil, domain.ErrCapacityBelowParticipants
	}
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Description != nil {
		e.Description = upd.Description
	}
	if upd.ImageURL != nil {
		e.ImageURL = upd.ImageURL
	}
	if upd.MaxParticipants != nil {
		e.MaxParticipants = *upd.MaxParticipants
	}
	if upd.EventDate != nil {
		e.EventDate = *upd.EventDate
	}
	e.UpdatedAt = time.Now()
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) SetDone(_ context.Context, id string, isDone bool) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	e, ok := f.db.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.IsDone = isDone
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.db.events, id)
	delete(f.db.participations, id)
	return nil
}

// fakeParticipationRepo is an in-memory ParticipationRepository. The store mutex
// plays the role of the event row lock.
type fakeParticipationRepo struct {
	db *store
}

func (f *fakeParticipationRepo) JoinWithinCapacity(_ context.Context, p *domain.Participation) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	e, ok := f.db.events[p.EventID]
	if !ok {
		return domain.ErrNotFound
	}
	if f.db.countLocked(p.EventID) >= e.MaxParticipants {
		return domain.ErrEventFull
	}
	members := f.db.participations[p.EventID]
	if members == nil {
		members = make(map[string]time.Time)
		f.db.participations[p.EventID] = members
	}
	if _, joined := members[p.UserID]; joined {
		return domain.ErrAlreadyJoined
	}
	members[p.UserID] = p.JoinedAt
	return nil
}

func (f *fakeParticipationRepo) Delete(_ context.Context, eventID, userID string) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	members := f.db.participations[eventID]
	if _, ok := members[userID]; !ok {
		return domain.ErrNotParticipating
	}
	delete(members, userID)
	return nil
}

func (f *fakeParticipationRepo) ListUsersByEventID(_ context.Context, eventID string) ([]*domain.UserSummary, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []*domain.UserSummary
	for userID := range f.db.participations[eventID] {
		u := f.db.users[userID]
		out = append(out, &domain.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeEmailService records sent emails and can be told to fail.
type fakeEmailService struct {
	mu           sync.Mutex
	welcome      []*domain.WelcomeMessageEmailData
	confirmation []*domain.JoinConfirmationEmailData
	err          error
}

func (f *fakeEmailService) SendWelcomeMessage(_ context.Context, data *domain.WelcomeMessageEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.welcome = append(f.welcome, data)
	return nil
}

func (f *fakeEmailService) SendJoinConfirmation(_ context.Context, data *domain.JoinConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.confirmation = append(f.confirmation, data)
	return nil
}

// fakeHasher stores "salt:password" as the hash.
type fakeHasher struct {
	saltErr error
}

func (h *fakeHasher) GenerateSalt() (string, error) {
	if h.saltErr != nil {
		return "", h.saltErr
	}
	return "salt", nil
}

func (h *fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (h *fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeIssuer returns "token-<userID>" and records the requested expiry.
type fakeIssuer struct {
	expiry  time.Duration
	isAdmin bool
}

func (i *fakeIssuer) Issue(userID string, isAdmin bool, expiry time.Duration) (string, time.Time, error) {
	i.expiry = expiry
	i.isAdmin = isAdmin
	return "token-" + userID, time.Now().Add(expiry), nil
}
