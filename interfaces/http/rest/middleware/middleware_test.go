package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "storeadmin/pkg/errors"
	"storeadmin/pkg/observability"
	"storeadmin/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockMetrics struct {
	observability.NoopMetrics
	mock.Mock
}

func (m *mockMetrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	m.Called(method, route, status)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	// Arrange
	metrics := new(mockMetrics)
	metrics.On("RecordHTTPRequest", http.MethodGet, "/product/{productID}", http.StatusTeapot).Once()

	router := chi.NewRouter()
	router.Use(Metrics(metrics))
	router.Get("/product/{productID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	// Act
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product/p1", nil))

	// Assert
	assert.Equal(t, http.StatusTeapot, rec.Code)
	metrics.AssertExpectations(t)
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
		assert.Equal(t, zap.ErrorLevel, entries[1].Level)
		assert.Equal(t, int64(http.StatusInternalServerError), entries[1].ContextMap()["status"])
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	return false, 0, errors.New("limiter offline")
}

func rateLimitedHandler(limiter ratelimit.Limiter) http.Handler {
	mw := RateLimit(limiter, pkgerrors.NewErrorHandler(zap.NewNop(), false), zap.NewNop())
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRateLimit_RejectsWithRetryAfter(t *testing.T) {
	// Arrange
	clock := clockwork.NewFakeClock()
	handler := rateLimitedHandler(ratelimit.NewKeyedLimiter(1, time.Minute, clock))
	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/order/my?id=u1", nil))
	clock.Advance(15 * time.Second)

	// Act
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/order/my?id=u1", nil))
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, httptest.NewRequest(http.MethodGet, "/api/v1/order/my?id=u2", nil))

	// Assert
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "45", second.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, other.Code)

	var body pkgerrors.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, string(pkgerrors.ErrorTypeRateLimit), body.Type)
}

func TestRateLimit_KeysAnonymousCallersByAddress(t *testing.T) {
	handler := rateLimitedHandler(ratelimit.NewKeyedLimiter(1, time.Minute, clockwork.NewFakeClock()))

	fromA := httptest.NewRequest(http.MethodGet, "/api/v1/product/latest", nil)
	fromA.RemoteAddr = "10.0.0.1:5000"
	fromB := httptest.NewRequest(http.MethodGet, "/api/v1/product/latest", nil)
	fromB.RemoteAddr = "10.0.0.2:5000"
	againA := httptest.NewRequest(http.MethodGet, "/api/v1/product/latest", nil)
	againA.RemoteAddr = "10.0.0.1:6000"

	codes := make([]int, 0, 3)
	for _, req := range []*http.Request{fromA, fromB, againA} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_LimiterErrorAdmits(t *testing.T) {
	rec := httptest.NewRecorder()

	rateLimitedHandler(failingLimiter{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
