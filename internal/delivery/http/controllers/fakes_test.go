package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testUserID  = "6b3f4d8e-2c1a-4f5e-9d7b-0a1b2c3d4e5f"
	testEventID = "0f8fad5b-d9cb-469f-a165-70867728950e"
)

// newRequest builds a request with body and, when p is non-empty, an authenticated principal.
func newRequest(method, target, body string, p domain.Principal) *http.Request {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	if p.UserID != "" {
		req = req.WithContext(middleware.SetPrincipal(req.Context(), p))
	}
	return req
}

// decodeResponse decodes the envelope, re-decoding data into dataOut when non-nil.
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, dataOut any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if dataOut != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, dataOut))
	}
	return raw.Error
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	registerErr  error
	loginErr     error
	loginResult  *domain.LoginResult
	lastEmail    string
	lastPassword string
	lastName     string
}

func (f *fakeAuthService) Register(_ context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastPassword, f.lastName = email, password, name
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	now := time.Now()
	u := domain.NewUser(email, name, false, now, now)
	u.ID = testUserID
	u.PasswordHash = "hash"
	u.Salt = "salt"
	return u, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (*domain.LoginResult, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAuthService) SeedAdmin(context.Context, string, string, string) (bool, error) {
	return false, nil
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err         error
	events      []*domain.EventWithCount
	updated     *domain.Event
	lastActor   domain.Principal
	lastEventID string
	lastCreate  *domain.Event
	lastUpdate  domain.EventUpdate
	lastDone    *bool
}

func (f *fakeEventService) ListEvents(context.Context) ([]*domain.EventWithCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) CreateEvent(_ context.Context, actor domain.Principal, event *domain.Event) error {
	f.lastActor, f.lastCreate = actor, event
	if f.err != nil {
		return f.err
	}
	event.ID = testEventID
	return nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, actor domain.Principal, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	f.lastActor, f.lastEventID, f.lastUpdate = actor, eventID, upd
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, actor domain.Principal, eventID string) error {
	f.lastActor, f.lastEventID = actor, eventID
	return f.err
}

func (f *fakeEventService) SetDone(_ context.Context, actor domain.Principal, eventID string, isDone bool) error {
	f.lastActor, f.lastEventID, f.lastDone = actor, eventID, &isDone
	return f.err
}

// fakeParticipationService implements domain.ParticipationService for handler tests.
type fakeParticipationService struct {
	err         error
	list        *domain.ParticipantList
	lastEventID string
	lastUserID  string
	calls       int
}

func (f *fakeParticipationService) Join(_ context.Context, eventID, userID string) (*domain.Participation, error) {
	f.calls++
	f.lastEventID, f.lastUserID = eventID, userID
	if f.err != nil {
		return nil, f.err
	}
	return domain.NewParticipation(eventID, userID, time.Now().UTC()), nil
}

func (f *fakeParticipationService) Cancel(_ context.Context, eventID, userID string) error {
	f.calls++
	f.lastEventID, f.lastUserID = eventID, userID
	return f.err
}

func (f *fakeParticipationService) ListParticipants(_ context.Context, eventID string) (*domain.ParticipantList, error) {
	f.calls++
	f.lastEventID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}
