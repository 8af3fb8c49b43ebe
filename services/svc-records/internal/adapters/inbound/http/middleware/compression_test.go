package middleware_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/architeacher/records/services/svc-records/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"github.com/stretchr/testify/require"
)

func compressionConfig() config.Compression {
	return config.Compression{
		Enabled:   true,
		Level:     5,
		MinSize:   64,
		SkipPaths: []string{"/liveness"},
	}
}

func largeBody() string {
	return `{"data":[` + strings.Repeat(`{"id":1,"username":"alice"},`, 40) + `{"id":2}]}`
}

func decode(t *testing.T, encoding string, body []byte) string {
	t.Helper()

	var reader io.Reader

	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(bytes.NewReader(body))
		require.NoError(t, err)

		reader = gz
	case "br":
		reader = brotli.NewReader(bytes.NewReader(body))
	default:
		return string(body)
	}

	decoded, err := io.ReadAll(reader)
	require.NoError(t, err)

	return string(decoded)
}

func TestCompression(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name             string
		path             string
		acceptEncoding   string
		contentType      string
		body             string
		expectedEncoding string
	}{
		{name: "gzip", path: "/v1/users", acceptEncoding: "gzip", body: largeBody(), expectedEncoding: "gzip"},
		{name: "brotli", path: "/v1/users", acceptEncoding: "br", body: largeBody(), expectedEncoding: "br"},
		{name: "quality decides", path: "/v1/users", acceptEncoding: "gzip;q=0.4, br;q=0.9", body: largeBody(), expectedEncoding: "br"},
		{name: "equal quality prefers gzip", path: "/v1/users", acceptEncoding: "br, gzip", body: largeBody(), expectedEncoding: "gzip"},
		{name: "wildcard", path: "/v1/users", acceptEncoding: "*", body: largeBody(), expectedEncoding: "gzip"},
		{name: "no accept encoding", path: "/v1/users", body: largeBody()},
		{name: "unsupported encoding", path: "/v1/users", acceptEncoding: "deflate", body: largeBody()},
		{name: "disabled by quality", path: "/v1/users", acceptEncoding: "gzip;q=0", body: largeBody()},
		{name: "small body", path: "/v1/users", acceptEncoding: "gzip", body: `{"data":[]}`},
		{name: "non compressible type", path: "/v1/users", acceptEncoding: "gzip", contentType: "image/png", body: largeBody()},
		{name: "skipped path", path: "/liveness", acceptEncoding: "gzip", body: largeBody()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			contentType := tc.contentType
			if contentType == "" {
				contentType = "application/json; charset=utf-8"
			}

			handler := middleware.Compression(compressionConfig(), nil)(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.Header().Set("Content-Type", contentType)
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write([]byte(tc.body))
				}),
			)

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.acceptEncoding != "" {
				req.Header.Set(middleware.AcceptEncodingHeader, tc.acceptEncoding)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, tc.expectedEncoding, rec.Header().Get(middleware.ContentEncodingHeader))
			require.Equal(t, tc.body, decode(t, tc.expectedEncoding, rec.Body.Bytes()))

			if tc.expectedEncoding != "" {
				require.Less(t, rec.Body.Len(), len(tc.body))
			}
		})
	}
}

func TestCompression_RecordsMetrics(t *testing.T) {
	t.Parallel()

	client := &recordingMetrics{counts: make(map[string]int64)}

	handler := middleware.Compression(compressionConfig(), client)(jsonHandler(http.StatusOK, largeBody()))

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set(middleware.AcceptEncodingHeader, "gzip")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/users", nil))

	require.Equal(t, int64(1), client.counts["http_compression_total"])
	require.Equal(t, int64(len(largeBody())), client.counts["http_compression_original_bytes"])
	require.Positive(t, client.counts["http_compression_saved_bytes"])
	require.Equal(t, int64(1), client.counts["http_compression_skipped_total"])
}
