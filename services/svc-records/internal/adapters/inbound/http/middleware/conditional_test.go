package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/architeacher/records/services/svc-records/internal/adapters/inbound/http/middleware"
	"github.com/stretchr/testify/require"
)

const userBody = `{"data":{"id":1,"username":"alice"}}`

func jsonHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestGenerateETag(t *testing.T) {
	t.Parallel()

	first := middleware.GenerateETag([]byte(userBody))

	require.Equal(t, first, middleware.GenerateETag([]byte(userBody)))
	require.NotEqual(t, first, middleware.GenerateETag([]byte(`{"data":{"id":2}}`)))
	require.Len(t, first, 18)
	require.Equal(t, byte('"'), first[0])
}

func TestConditionalGET(t *testing.T) {
	t.Parallel()

	etag := middleware.GenerateETag([]byte(userBody))

	cases := []struct {
		name           string
		method         string
		status         int
		ifNoneMatch    string
		expectedStatus int
		expectETag     bool
		expectBody     bool
	}{
		{name: "tags a fresh response", method: http.MethodGet, status: http.StatusOK, expectedStatus: http.StatusOK, expectETag: true, expectBody: true},
		{name: "matching validator", method: http.MethodGet, status: http.StatusOK, ifNoneMatch: etag, expectedStatus: http.StatusNotModified, expectETag: true},
		{name: "weak validator", method: http.MethodGet, status: http.StatusOK, ifNoneMatch: "W/" + etag, expectedStatus: http.StatusNotModified, expectETag: true},
		{name: "validator list", method: http.MethodGet, status: http.StatusOK, ifNoneMatch: `"other", ` + etag, expectedStatus: http.StatusNotModified, expectETag: true},
		{name: "wildcard", method: http.MethodGet, status: http.StatusOK, ifNoneMatch: "*", expectedStatus: http.StatusNotModified, expectETag: true},
		{name: "stale validator", method: http.MethodGet, status: http.StatusOK, ifNoneMatch: `"0000000000000000"`, expectedStatus: http.StatusOK, expectETag: true, expectBody: true},
		{name: "error responses are not tagged", method: http.MethodGet, status: http.StatusNotFound, ifNoneMatch: "*", expectedStatus: http.StatusNotFound, expectBody: true},
		{name: "writes pass through", method: http.MethodPost, status: http.StatusCreated, ifNoneMatch: "*", expectedStatus: http.StatusCreated, expectBody: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := middleware.ConditionalGET()(jsonHandler(tc.status, userBody))

			req := httptest.NewRequest(tc.method, "/v1/users/1", nil)
			if tc.ifNoneMatch != "" {
				req.Header.Set(middleware.IfNoneMatchHeader, tc.ifNoneMatch)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tc.expectedStatus, rec.Code)

			if tc.expectETag {
				require.Equal(t, etag, rec.Header().Get(middleware.ETagHeader))
			} else {
				require.Empty(t, rec.Header().Get(middleware.ETagHeader))
			}

			if tc.expectBody {
				require.Equal(t, userBody, rec.Body.String())
			} else {
				require.Zero(t, rec.Body.Len())
			}
		})
	}
}
