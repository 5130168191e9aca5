package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/municipalservices/internal/config"
	"anoa.com/municipalservices/internal/middleware"
	"anoa.com/municipalservices/pkg/token"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newOfflineServer builds the full router against a database that is never
// dialled, which is enough for everything decided before a query runs.
func newOfflineServer(t *testing.T) (http.Handler, token.Maker) {
	t.Helper()

	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=offline dbname=offline sslmode=disable connect_timeout=1"),
		&gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	maker, err := token.NewJWTMaker("server-test-secret", "municipal-services")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	srv := NewServer(Deps{
		Config: &config.Config{
			AppEnv:         "test",
			SessionTTL:     time.Hour,
			RequestTimeout: 5 * time.Second,
		},
		DB:       db,
		Maker:    maker,
		Gatherer: reg,
		Metrics:  middleware.NewMetrics(reg),
		Log:      zap.NewNop(),
	})
	return srv.Handler(), maker
}

func sessionCookie(t *testing.T, maker token.Maker, email, role string) *http.Cookie {
	t.Helper()
	tok, _, err := maker.CreateToken(email, role, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: tok}
}

func TestHealthReportsUnavailableDatabase(t *testing.T) {
	h, _ := newOfflineServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"database":"unavailable"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newOfflineServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAuthGate(t *testing.T) {
	h, maker := newOfflineServer(t)
	resident := sessionCookie(t, maker, "resident@example.com", token.RoleCitizen)

	tests := []struct {
		name   string
		method string
		path   string
		cookie *http.Cookie
		want   int
	}{
		{"anonymous bills", http.MethodGet, "/bills", nil, http.StatusUnauthorized},
		{"anonymous requests", http.MethodPost, "/requests", nil, http.StatusUnauthorized},
		{"anonymous notifications", http.MethodGet, "/notifications", nil, http.StatusUnauthorized},
		{"anonymous me", http.MethodGet, "/auth/me", nil, http.StatusUnauthorized},
		{"resident lists citizens", http.MethodGet, "/citizens", resident, http.StatusForbidden},
		{"resident creates building", http.MethodPost, "/buildings", resident, http.StatusForbidden},
		{"resident deletes address", http.MethodDelete, "/buildings/1/addresses/1", resident, http.StatusForbidden},
		{"resident links occupant", http.MethodPost, "/buildings/1/addresses/1/citizens", resident, http.StatusForbidden},
		{"resident creates bill", http.MethodPost, "/bills", resident, http.StatusForbidden},
		{"resident edits utility", http.MethodPatch, "/utilities/1", resident, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/nowhere", resident, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLogoutIsPublic(t *testing.T) {
	h, _ := newOfflineServer(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookie+"=")
}
