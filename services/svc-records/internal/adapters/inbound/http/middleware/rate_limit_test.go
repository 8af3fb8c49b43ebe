package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/stretchr/testify/require"
	"github.com/throttled/throttled/v2/store/memstore"
)

var errStoreDown = errors.New("keydb: connection refused")

type failingStore struct{}

func (failingStore) GetWithTime(_ context.Context, _ string) (int64, time.Time, error) {
	return 0, time.Time{}, errStoreDown
}

func (failingStore) SetIfNotExistsWithTTL(_ context.Context, _ string, _ int64, _ time.Duration) (bool, error) {
	return false, errStoreDown
}

func (failingStore) CompareAndSwapWithTTL(_ context.Context, _ string, _, _ int64, _ time.Duration) (bool, error) {
	return false, errStoreDown
}

func rateLimitConfig() config.RateLimiting {
	return config.RateLimiting{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstSize:         0,
		MaxKeys:           100,
		SkipPaths:         []string{"/liveness", "/readiness", "/health"},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func get(handler http.Handler, path, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func TestRateLimit_BlocksBurstPerClient(t *testing.T) {
	t.Parallel()

	store, err := memstore.NewCtx(100)
	require.NoError(t, err)

	limit, err := middleware.RateLimit(rateLimitConfig(), store, logger.NewTestLogger())
	require.NoError(t, err)

	handler := limit(okHandler())

	first := get(handler, "/v1/users", "192.168.1.2:12345")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "1", first.Header().Get(middleware.RateLimitLimitHeader))
	require.Equal(t, "0", first.Header().Get(middleware.RateLimitRemainingHeader))

	reset, err := strconv.ParseInt(first.Header().Get(middleware.RateLimitResetHeader), 10, 64)
	require.NoError(t, err)
	require.GreaterOrEqual(t, reset, time.Now().Unix())

	second := get(handler, "/v1/users", "192.168.1.2:23456")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.NotEmpty(t, second.Header().Get(middleware.RetryAfterHeader))

	var body map[string]any
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	require.Equal(t, "RATE_LIMIT_EXCEEDED", body["code"])

	other := get(handler, "/v1/users", "192.168.1.3:12345")
	require.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimit_SkipsHealthProbes(t *testing.T) {
	t.Parallel()

	store, err := memstore.NewCtx(100)
	require.NoError(t, err)

	limit, err := middleware.RateLimit(rateLimitConfig(), store, logger.NewTestLogger())
	require.NoError(t, err)

	handler := limit(okHandler())

	for range 5 {
		rec := get(handler, "/liveness", "192.168.1.100:12345")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Header().Get(middleware.RateLimitLimitHeader))
	}
}

func TestRateLimit_StoreFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name           string
		degraded       bool
		expectedStatus int
		expectedCode   string
	}{
		{name: "graceful degradation lets requests through", degraded: true, expectedStatus: http.StatusOK},
		{name: "strict mode rejects", expectedStatus: http.StatusServiceUnavailable, expectedCode: "RATE_LIMITER_UNAVAILABLE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := rateLimitConfig()
			cfg.GracefulDegraded = tc.degraded

			limit, err := middleware.RateLimit(cfg, failingStore{}, logger.NewTestLogger())
			require.NoError(t, err)

			rec := get(limit(okHandler()), "/v1/users", "10.0.0.1:4000")
			require.Equal(t, tc.expectedStatus, rec.Code)

			if tc.expectedCode != "" {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, tc.expectedCode, body["code"])
			}
		})
	}
}

func TestRateLimit_RejectsZeroRate(t *testing.T) {
	t.Parallel()

	store, err := memstore.NewCtx(10)
	require.NoError(t, err)

	cfg := rateLimitConfig()
	cfg.RequestsPerSecond = 0

	_, err = middleware.RateLimit(cfg, store, logger.NewTestLogger())
	require.Error(t, err)
}
