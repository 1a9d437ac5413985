package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// ParticipationRequest is the request body for join, cancel and (optionally) participants.
type ParticipationRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (p ParticipationRequest) Validate() []string {
	return helpers.ValidateID(nil, "event_id", p.EventID)
}

// ParticipationSuccessResponse is the success response envelope for POST /events/join (200).
type ParticipationSuccessResponse struct {
	Data  *domain.Participation `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ParticipantsSuccessResponse is the success response envelope for GET /events/participants (200).
type ParticipantsSuccessResponse struct {
	Data  *domain.ParticipantList `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type ParticipationController struct {
	Logger  *slog.Logger
	Service domain.ParticipationService
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService) *ParticipationController {
	return &ParticipationController{
		Logger:  logger,
		Service: svc,
	}
}

// Join godoc
// @Summary Join an event
// @Description Adds the authenticated user to the event if a seat is free. The capacity check and insert are atomic.
// @Tags participation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ParticipationRequest true "Event to join"
// @Success 200 {object} controllers.ParticipationSuccessResponse "data contains the participation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already joined) or event_full"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/join [post]
func (c *ParticipationController) Join(w http.ResponseWriter, r *http.Request) {
	var req ParticipationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	p, err := c.Service.Join(r.Context(), req.EventID, actor.UserID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// Cancel godoc
// @Summary Cancel participation
// @Description Removes the authenticated user from the event.
// @Tags participation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ParticipationRequest true "Event to leave"
// @Success 200 {object} helpers.APIResponse "data.message confirms cancellation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (including not participating)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/cancel [post]
func (c *ParticipationController) Cancel(w http.ResponseWriter, r *http.Request) {
	var req ParticipationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := principal(w, r)
	if !ok {
		return
	}
	if err := c.Service.Cancel(r.Context(), req.EventID, actor.UserID); err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "participation cancelled"})
}

// ListParticipants godoc
// @Summary List event participants
// @Description Returns the participant count and the id, name and email of each participant. The event id is read from the event_id query parameter, or from a JSON body when the parameter is absent.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param event_id query string false "Event ID (UUID)"
// @Success 200 {object} controllers.ParticipantsSuccessResponse "data contains count and participants"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/participants [get]
func (c *ParticipationController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	req := ParticipationRequest{EventID: strings.TrimSpace(r.URL.Query().Get("event_id"))}
	if req.EventID == "" && r.ContentLength != 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	} else if errs := req.Validate(); len(errs) > 0 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
		return
	}
	list, err := c.Service.ListParticipants(r.Context(), req.EventID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}
