package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate implements Validator. Format rules are enforced by the auth service.
func (s RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type AuthController struct {
	Logger       *slog.Logger
	Service      domain.AuthService
	SecureCookie bool
}

// NewAuthController creates an AuthController. secureCookie marks the login cookie Secure (HTTPS only).
func NewAuthController(logger *slog.Logger, svc domain.AuthService, secureCookie bool) *AuthController {
	return &AuthController{
		Logger:       logger,
		Service:      svc,
		SecureCookie: secureCookie,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create a new user with email, password (min 8 characters), and name. Password is stored salted and hashed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT carrying the user id and admin flag, and sets it as the "token" cookie with the same lifetime.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, expires_at and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	res, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}

	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	})
}
