package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func newParticipationService(db *store, emails *fakeEmailService) domain.ParticipationService {
	return NewParticipationService(
		&fakeUserRepo{db: db},
		&fakeEventRepo{db: db},
		&fakeParticipationRepo{db: db},
		emails,
		discardLogger(),
		testTimeout,
	)
}

func TestParticipationService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("success sends confirmation", func(t *testing.T) {
		db := newStore()
		emails := &fakeEmailService{}
		u := db.addUser("ann@x.io", "Ann", false)
		ev := db.addEvent("Meetup", 2, u.ID)

		p, err := newParticipationService(db, emails).Join(ctx, ev.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, ev.ID, p.EventID)
		assert.Equal(t, u.ID, p.UserID)
		assert.False(t, p.JoinedAt.IsZero())
		assert.Equal(t, 1, db.countLocked(ev.ID))

		require.Len(t, emails.confirmation, 1)
		assert.Equal(t, "ann@x.io", emails.confirmation[0].Email)
		assert.Equal(t, "Meetup", emails.confirmation[0].EventTitle)
	})

	t.Run("email failure does not fail join", func(t *testing.T) {
		db := newStore()
		u := db.addUser("ann@x.io", "Ann", false)
		ev := db.addEvent("Meetup", 2, u.ID)

		_, err := newParticipationService(db, &fakeEmailService{err: errors.New("smtp down")}).Join(ctx, ev.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, db.countLocked(ev.ID))
	})

	t.Run("already joined", func(t *testing.T) {
		db := newStore()
		u := db.addUser("ann@x.io", "Ann", false)
		ev := db.addEvent("Meetup", 2, u.ID)
		svc := newParticipationService(db, &fakeEmailService{})

		_, err := svc.Join(ctx, ev.ID, u.ID)
		require.NoError(t, err)
		_, err = svc.Join(ctx, ev.ID, u.ID)
		require.ErrorIs(t, err, domain.ErrAlreadyJoined)
		assert.Equal(t, 1, db.countLocked(ev.ID))
	})

	t.Run("event full", func(t *testing.T) {
		db := newStore()
		a := db.addUser("a@x.io", "A", false)
		b := db.addUser("b@x.io", "B", false)
		ev := db.addEvent("Tiny", 1, a.ID)
		svc := newParticipationService(db, &fakeEmailService{})

		_, err := svc.Join(ctx, ev.ID, a.ID)
		require.NoError(t, err)
		_, err = svc.Join(ctx, ev.ID, b.ID)
		require.ErrorIs(t, err, domain.ErrEventFull)
	})

	t.Run("unknown event", func(t *testing.T) {
		db := newStore()
		u := db.addUser("a@x.io", "A", false)
		_, err := newParticipationService(db, &fakeEmailService{}).Join(ctx, "missing", u.ID)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown user", func(t *testing.T) {
		db := newStore()
		owner := db.addUser("a@x.io", "A", false)
		ev := db.addEvent("Meetup", 2, owner.ID)
		_, err := newParticipationService(db, &fakeEmailService{}).Join(ctx, ev.ID, "ghost")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestParticipationService_ConcurrentJoinRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	db := newStore()
	owner := db.addUser("owner@x.io", "Owner", false)
	ev := db.addEvent("Last seat", 1, owner.ID)

	const joiners = 20
	users := make([]*domain.User, joiners)
	for i := range users {
		users[i] = db.addUser("u"+string(rune('a'+i))+"@x.io", "U", false)
	}
	svc := newParticipationService(db, &fakeEmailService{})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		full      int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := svc.Join(ctx, ev.ID, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrEventFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, joiners-1, full)
	assert.Equal(t, 1, db.countLocked(ev.ID))
}

func TestParticipationService_Cancel(t *testing.T) {
	ctx := context.Background()
	db := newStore()
	u := db.addUser("ann@x.io", "Ann", false)
	ev := db.addEvent("Meetup", 1, u.ID)
	svc := newParticipationService(db, &fakeEmailService{})

	require.ErrorIs(t, svc.Cancel(ctx, ev.ID, u.ID), domain.ErrNotParticipating)

	_, err := svc.Join(ctx, ev.ID, u.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, ev.ID, u.ID))
	assert.Equal(t, 0, db.countLocked(ev.ID))

	// the freed seat can be taken again
	_, err = svc.Join(ctx, ev.ID, u.ID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Cancel(ctx, "missing", u.ID), domain.ErrNotFound)
	require.ErrorIs(t, svc.Cancel(ctx, ev.ID, "ghost"), domain.ErrUserNotFound)
}

func TestParticipationService_ListParticipants(t *testing.T) {
	ctx := context.Background()
	db := newStore()
	a := db.addUser("a@x.io", "A", false)
	b := db.addUser("b@x.io", "B", false)
	ev := db.addEvent("Meetup", 5, a.ID)
	empty := db.addEvent("Quiet", 5, a.ID)
	svc := newParticipationService(db, &fakeEmailService{})

	for _, u := range []*domain.User{a, b} {
		_, err := svc.Join(ctx, ev.ID, u.ID)
		require.NoError(t, err)
	}

	list, err := svc.ListParticipants(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	require.Len(t, list.Participants, 2)
	assert.Equal(t, "a@x.io", list.Participants[0].Email)
	assert.Equal(t, "B", list.Participants[1].Name)

	list, err = svc.ListParticipants(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Participants)

	_, err = svc.ListParticipants(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
