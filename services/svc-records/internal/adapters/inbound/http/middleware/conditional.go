package middleware

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	ETagHeader        = "ETag"
	IfNoneMatchHeader = "If-None-Match"
)

// bufferedWriter holds the downstream response so it can be fingerprinted
// before anything reaches the client.
type bufferedWriter struct {
	http.ResponseWriter
	statusCode  int
	body        bytes.Buffer
	wroteHeader bool
}

func newBufferedWriter(w http.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *bufferedWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}

	w.statusCode = code
	w.wroteHeader = true
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	return w.body.Write(b)
}

func (w *bufferedWriter) flush() {
	w.ResponseWriter.WriteHeader(w.statusCode)
	_, _ = w.ResponseWriter.Write(w.body.Bytes())
}

// GenerateETag returns the quoted strong validator of a response body.
func GenerateETag(body []byte) string {
	var sum [8]byte

	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64(body))

	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// ConditionalGET tags successful GET and HEAD responses with an ETag and
// answers 304 Not Modified when the caller already holds the same body.
func ConditionalGET() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)

				return
			}

			buffered := newBufferedWriter(w)

			next.ServeHTTP(buffered, r)

			if buffered.statusCode != http.StatusOK {
				buffered.flush()

				return
			}

			etag := GenerateETag(buffered.body.Bytes())
			w.Header().Set(ETagHeader, etag)

			if etagMatches(r.Header.Get(IfNoneMatchHeader), etag) {
				w.Header().Del("Content-Length")
				w.WriteHeader(http.StatusNotModified)

				return
			}

			buffered.flush()
		})
	}
}

func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}

	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}

	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == etag {
			return true
		}
	}

	return false
}
