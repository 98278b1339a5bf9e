package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/unimarket/internal/auth"
	"github.com/MrJamesThe3rd/unimarket/internal/http/middleware"
	"github.com/MrJamesThe3rd/unimarket/internal/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestSession(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", "", time.Hour)
	user := auth.User{ID: uuid.New(), Email: "ada@uni.edu"}

	token, err := tm.Issue(user)
	require.NoError(t, err)

	var got auth.User

	h := middleware.Session(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := middleware.Caller(r.Context())
		require.True(t, ok)

		got = u

		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "ValidToken", header: "Bearer " + token, want: http.StatusNoContent},
		{name: "LowercaseScheme", header: "bearer " + token, want: http.StatusNoContent},
		{name: "Missing", header: "", want: http.StatusUnauthorized},
		{name: "WrongScheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "Garbage", header: "Bearer not-a-jwt", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			if tt.want == http.StatusNoContent {
				assert.Equal(t, user, got)
			}
		})
	}
}

func TestCronSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{name: "Match", secret: "s3cret", header: "Bearer s3cret", want: http.StatusNoContent},
		{name: "Mismatch", secret: "s3cret", header: "Bearer guess", want: http.StatusUnauthorized},
		{name: "Missing", secret: "s3cret", want: http.StatusUnauthorized},
		{name: "NotConfigured", secret: "", header: "Bearer ", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/jobs/cleanup-escrow", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			middleware.CronSecret(tt.secret)(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	h := middleware.NewRateLimiter(1, 2).Middleware(http.HandlerFunc(okHandler))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify", nil)
		req.RemoteAddr = addr

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:4000"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:4001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:4002"))

	// Other clients have their own bucket.
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:4000"))
}

func TestRateLimiter_IgnoresForwardingHeaders(t *testing.T) {
	h := middleware.NewRateLimiter(1, 1).Middleware(http.HandlerFunc(okHandler))

	do := func(spoofed string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Real-IP", spoofed)
		req.Header.Set("X-Forwarded-For", spoofed)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("192.0.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, do("192.0.2.3"))
}

func TestRateLimiter_ForgetsIdleClients(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := middleware.NewRateLimiter(60, 1).WithClock(func() time.Time { return now })
	h := rl.Middleware(http.HandlerFunc(okHandler))

	hit := func(addr string) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/verify", nil)
		req.RemoteAddr = addr
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	hit("10.0.0.1:1")
	hit("10.0.0.2:1")
	assert.Equal(t, 2, rl.Visitors())

	now = now.Add(time.Minute)
	hit("10.0.0.3:1")
	assert.Equal(t, 3, rl.Visitors(), "idle clients are kept until the prune interval passes")

	now = now.Add(5 * time.Minute)
	hit("10.0.0.3:1")
	assert.Equal(t, 1, rl.Visitors())
}

func TestHTTPMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.HTTPMetrics)
	r.Get("/api/v1/transactions/{id}", okHandler)

	before := testutil.CollectAndCount(metrics.HTTPLatency)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+uuid.NewString(), nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+uuid.NewString(), nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	// Both requests land in the same series.
	assert.Equal(t, before+1, testutil.CollectAndCount(metrics.HTTPLatency))
}
