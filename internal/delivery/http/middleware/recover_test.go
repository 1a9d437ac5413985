package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhub/internal/delivery/http/helpers"
)

func TestRecover(t *testing.T) {
	var cap capturingHandler
	logger := slog.New(&cap)
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("nil map write in handler")
	})
	rr := httptest.NewRecorder()

	Recover(logger, next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "nil map")
	var resp helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, helpers.ErrCodeInternalError, resp.Error.Code)

	assert.Equal(t, "panic recovered", cap.record.Message)
	attrs := cap.attrs()
	assert.Equal(t, "nil map write in handler", attrs["panic"].String())
	assert.Contains(t, attrs["stack"].String(), "goroutine")
}

func TestRecover_NoPanic(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	rr := httptest.NewRecorder()
	Recover(slog.New(&capturingHandler{}), next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
