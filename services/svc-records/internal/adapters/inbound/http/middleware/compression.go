package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"mime"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/architeacher/records/pkg/metrics"
	"github.com/architeacher/records/services/svc-records/internal/config"
	"go.opentelemetry.io/otel/attribute"
)

const (
	AcceptEncodingHeader  = "Accept-Encoding"
	ContentEncodingHeader = "Content-Encoding"

	encodingGzip     = "gzip"
	encodingBrotli   = "br"
	encodingIdentity = "identity"

	compressionAlgorithmKey  = "compression.algorithm"
	compressionSkipReasonKey = "compression.skip_reason"

	httpCompressionTotal         = "http_compression_total"
	httpCompressionOriginalBytes = "http_compression_original_bytes"
	httpCompressionSavedBytes    = "http_compression_saved_bytes"
	httpCompressionSkippedTotal  = "http_compression_skipped_total"

	skipReasonBelowMinSize    = "below_min_size"
	skipReasonNonCompressible = "non_compressible_type"
	skipReasonNoEncoding      = "no_accept_encoding"
)

// DefaultCompressibleTypes are compressed when no content types are configured.
var DefaultCompressibleTypes = []string{
	"application/json",
	"application/problem+json",
	"text/plain",
}

// encodingPreference breaks ties between equally weighted client encodings.
var encodingPreference = []string{encodingGzip, encodingBrotli}

type acceptEncoding struct {
	encoding string
	quality  float64
}

// Compression encodes response bodies with gzip or brotli according to the
// caller's Accept-Encoding header. Bodies below the configured minimum size
// and non-compressible content types are written as-is.
func Compression(cfg config.Compression, metricsClient metrics.Client) func(http.Handler) http.Handler {
	contentTypes := cfg.ContentTypes
	if len(contentTypes) == 0 {
		contentTypes = DefaultCompressibleTypes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasPathPrefix(r.URL.Path, cfg.SkipPaths) {
				next.ServeHTTP(w, r)

				return
			}

			encoding := selectEncoding(parseAcceptEncoding(r.Header.Get(AcceptEncodingHeader)))
			if encoding == "" {
				recordCompressionSkipped(r, metricsClient, skipReasonNoEncoding)
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Add("Vary", AcceptEncodingHeader)

			buffered := newBufferedWriter(w)

			next.ServeHTTP(buffered, r)

			body := buffered.body.Bytes()

			switch {
			case len(body) == 0 || len(body) < cfg.MinSize:
				recordCompressionSkipped(r, metricsClient, skipReasonBelowMinSize)
				buffered.flush()

				return
			case !isCompressible(w.Header().Get("Content-Type"), contentTypes):
				recordCompressionSkipped(r, metricsClient, skipReasonNonCompressible)
				buffered.flush()

				return
			}

			compressed, err := compress(encoding, cfg.Level, body)
			if err != nil {
				buffered.flush()

				return
			}

			w.Header().Set(ContentEncodingHeader, encoding)
			w.Header().Set("Content-Length", strconv.Itoa(len(compressed)))
			w.WriteHeader(buffered.statusCode)
			_, _ = w.Write(compressed)

			recordCompression(r, metricsClient, encoding, len(body), len(compressed))
		})
	}
}

func compress(encoding string, level int, body []byte) ([]byte, error) {
	var (
		out    bytes.Buffer
		writer io.WriteCloser
	)

	switch encoding {
	case encodingBrotli:
		writer = brotli.NewWriterLevel(&out, clampLevel(level, brotli.BestSpeed, brotli.BestCompression))
	default:
		gz, err := gzip.NewWriterLevel(&out, clampLevel(level, gzip.BestSpeed, gzip.BestCompression))
		if err != nil {
			return nil, err
		}

		writer = gz
	}

	if _, err := writer.Write(body); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

func clampLevel(level, lowest, highest int) int {
	return min(max(level, lowest), highest)
}

func parseAcceptEncoding(header string) []acceptEncoding {
	var encodings []acceptEncoding

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		enc := acceptEncoding{quality: 1.0}

		params := strings.Split(part, ";")
		enc.encoding = strings.ToLower(strings.TrimSpace(params[0]))

		for _, param := range params[1:] {
			param = strings.TrimSpace(param)
			if q, ok := strings.CutPrefix(param, "q="); ok {
				if quality, err := strconv.ParseFloat(q, 64); err == nil {
					enc.quality = quality
				}
			}
		}

		encodings = append(encodings, enc)
	}

	return encodings
}

// selectEncoding picks the highest weighted supported encoding. Ties go to
// gzip. An empty result means the body is sent unencoded.
func selectEncoding(encodings []acceptEncoding) string {
	best, bestQuality := "", 0.0

	for _, enc := range encodings {
		if enc.quality <= 0 || enc.encoding == encodingIdentity {
			continue
		}

		candidate := enc.encoding
		if candidate == "*" {
			candidate = encodingPreference[0]
		}

		rank := slices.Index(encodingPreference, candidate)
		if rank < 0 {
			continue
		}

		if enc.quality > bestQuality || (enc.quality == bestQuality && rank < slices.Index(encodingPreference, best)) {
			best, bestQuality = candidate, enc.quality
		}
	}

	return best
}

func isCompressible(contentType string, allowed []string) bool {
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return slices.Contains(allowed, mediaType)
}

func hasPathPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

func recordCompressionSkipped(r *http.Request, metricsClient metrics.Client, reason string) {
	if metricsClient == nil {
		return
	}

	metricsClient.Inc(r.Context(), httpCompressionSkippedTotal, int64(1),
		attribute.String(compressionSkipReasonKey, reason),
	)
}

func recordCompression(r *http.Request, metricsClient metrics.Client, encoding string, original, compressed int) {
	if metricsClient == nil {
		return
	}

	attrs := []attribute.KeyValue{attribute.String(compressionAlgorithmKey, encoding)}

	metricsClient.Inc(r.Context(), httpCompressionTotal, int64(1), attrs...)
	metricsClient.Inc(r.Context(), httpCompressionOriginalBytes, int64(original), attrs...)
	metricsClient.Inc(r.Context(), httpCompressionSavedBytes, int64(original-compressed), attrs...)
}
