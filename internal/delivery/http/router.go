package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"

	_ "eventhub/docs"
)

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth          *controllers.AuthController
	Event         *controllers.EventController
	Participation *controllers.ParticipationController
}

// NewRouter initializes the HTTP router with all application routes wrapped in
// recovery, logging and CORS middleware.
func NewRouter(c Controllers, verifier domain.TokenVerifier, db Pinger, allowedOrigins []string, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Events
	mux.HandleFunc("GET /events", auth(c.Event.ListEvents))
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("PATCH /events", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events", auth(c.Event.DeleteEvent))
	mux.HandleFunc("PATCH /events/done", auth(c.Event.SetDone))

	// Participation
	mux.HandleFunc("POST /events/join", auth(c.Participation.Join))
	mux.HandleFunc("POST /events/cancel", auth(c.Participation.Cancel))
	mux.HandleFunc("GET /events/participants", auth(c.Participation.ListParticipants))

	mux.HandleFunc("GET /healthz", healthz(db, logger))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.CORS(allowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.Recover(logger, handler)
	return handler
}

// healthz godoc
// @Summary Health check
// @Description Reports whether the database is reachable.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.status is ok"
// @Failure 503 {object} helpers.APIResponse "error.code: timeout"
// @Router /healthz [get]
func healthz(db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.WarnContext(ctx, "health check failed", "err", err)
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeTimeout, "database unavailable")
			return
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
