package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name            string
		allowed         []string
		method          string
		origin          string
		preflight       bool
		wantStatus      int
		wantAllowOrigin string
		wantCredentials string
		wantMethods     bool
	}{
		{
			name:            "allowed origin simple request",
			allowed:         []string{"https://app.example.com/"},
			method:          http.MethodGet,
			origin:          "https://app.example.com",
			wantStatus:      http.StatusTeapot,
			wantAllowOrigin: "https://app.example.com",
			wantCredentials: "true",
		},
		{
			name:       "disallowed origin passes through without headers",
			allowed:    []string{"https://app.example.com"},
			method:     http.MethodGet,
			origin:     "https://evil.example.com",
			wantStatus: http.StatusTeapot,
		},
		{
			name:            "preflight allowed",
			allowed:         []string{"https://app.example.com"},
			method:          http.MethodOptions,
			origin:          "https://app.example.com",
			preflight:       true,
			wantStatus:      http.StatusNoContent,
			wantAllowOrigin: "https://app.example.com",
			wantCredentials: "true",
			wantMethods:     true,
		},
		{
			name:       "preflight disallowed",
			allowed:    []string{"https://app.example.com"},
			method:     http.MethodOptions,
			origin:     "https://evil.example.com",
			preflight:  true,
			wantStatus: http.StatusNoContent,
		},
		{
			name:            "wildcard without credentials",
			allowed:         []string{"*"},
			method:          http.MethodGet,
			origin:          "https://anything.example.com",
			wantStatus:      http.StatusTeapot,
			wantAllowOrigin: "https://anything.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()

			CORS(tt.allowed, okHandler).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllowOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, rr.Header().Get("Access-Control-Allow-Credentials"))
			assert.Equal(t, tt.wantMethods, rr.Header().Get("Access-Control-Allow-Methods") != "")
		})
	}
}
