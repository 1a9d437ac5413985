package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	ImageURL        *string   `json:"image_url"`
	MaxParticipants int       `json:"max_participants"`
	EventDate       time.Time `json:"event_date"`
}

// Validate implements Validator. Returns error messages for required and range rules.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be a positive integer")
	}
	if c.EventDate.IsZero() {
		errs = append(errs, "event_date is required")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events. All fields but id are optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	ID              string     `json:"id"`
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	ImageURL        *string    `json:"image_url"`
	MaxParticipants *int       `json:"max_participants"`
	EventDate       *time.Time `json:"event_date"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	errs := helpers.ValidateID(nil, "id", u.ID)
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.MaxParticipants != nil && *u.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be a positive integer")
	}
	if u.EventDate != nil && u.EventDate.IsZero() {
		errs = append(errs, "event_date cannot be zero")
	}
	return errs
}

func (u UpdateEventRequest) toUpdate() domain.EventUpdate {
	return domain.EventUpdate{
		Title:           u.Title,
		Description:     u.Description,
		ImageURL:        u.ImageURL,
		MaxParticipants: u.MaxParticipants,
		EventDate:       u.EventDate,
	}
}

// EventIDRequest is the request body for DELETE /events.
type EventIDRequest struct {
	ID string `json:"id"`
}

// Validate implements Validator.
func (e EventIDRequest) Validate() []string {
	return helpers.ValidateID(nil, "id", e.ID)
}

// SetDoneRequest is the request body for PATCH /events/done.
type SetDoneRequest struct {
	ID     string `json:"id"`
	IsDone *bool  `json:"is_done"`
}

// Validate implements Validator.
func (s SetDoneRequest) Validate() []string {
	errs := helpers.ValidateID(nil, "id", s.ID)
	if s.IsDone == nil {
		errs = append(errs, "is_done is required")
	}
	return errs
}

// ListEventsResponse is the response body for GET /events.
type ListEventsResponse struct {
	Events []*domain.EventWithCount `json:"events"`
}

// EventSuccessResponse is the success response envelope for POST and PATCH /events.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// MessageResponse is returned by endpoints that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// principal fetches the authenticated caller or writes a 401.
func principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return p, ok
}

// ListEvents godoc
// @Summary List events
// @Description Returns every event with its current participant count. Requires authentication.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListEventsSuccessResponse "data.events contains events with participant_count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Events: events})
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create a new event. The authenticated user becomes its creator.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	now := time.Now()
	event := domain.NewEvent(req.Title, req.Description, req.ImageURL, req.MaxParticipants, req.EventDate, actor.UserID, now, now)
	if err := c.Service.CreateEvent(r.Context(), actor, event); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Updates the given fields of an event. Only the creator or an admin may update. max_participants cannot drop below the current participant count.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateEventRequest true "Event id and fields to update"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), actor, req.ID, req.toUpdate())
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes an event and all its participations. Only the creator or an admin may delete.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EventIDRequest true "Event id"
// @Success 200 {object} helpers.APIResponse "data.message confirms deletion"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	var req EventIDRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), actor, req.ID); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "event deleted"})
}

// SetDone godoc
// @Summary Mark an event done or not done
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetDoneRequest true "Event id and done flag"
// @Success 200 {object} helpers.APIResponse "data.message confirms the update"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/done [patch]
func (c *EventController) SetDone(w http.ResponseWriter, r *http.Request) {
	var req SetDoneRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	if err := c.Service.SetDone(r.Context(), actor, req.ID, *req.IsDone); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "event updated"})
}
