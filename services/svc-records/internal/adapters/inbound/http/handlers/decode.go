package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
)

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads one JSON document into v. Numbers are kept exact and later
// narrowed by normalizeNumbers, so integral values reach the store as int64.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any, disallowUnknown bool) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	if disallowUnknown {
		decoder.DisallowUnknownFields()
	}

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}

		return fmt.Errorf("decoding body: %w", err)
	}

	return nil
}

func decodeRecord(w http.ResponseWriter, r *http.Request, maxBytes int64) (model.Record, error) {
	var payload model.Record
	if err := decodeJSON(w, r, maxBytes, &payload, false); err != nil {
		return nil, err
	}

	if payload == nil {
		return nil, errEmptyBody
	}

	return normalizeNumbers(payload).(model.Record), nil
}

func decodeFilterSpec(w http.ResponseWriter, r *http.Request, maxBytes int64) (model.FilterSpec, error) {
	var spec model.FilterSpec
	if err := decodeJSON(w, r, maxBytes, &spec, true); err != nil {
		if errors.Is(err, errEmptyBody) {
			return model.FilterSpec{}, nil
		}

		return model.FilterSpec{}, err
	}

	for field, value := range spec.Filters {
		spec.Filters[field] = normalizeNumbers(value)
	}

	if spec.GroupBy != nil {
		spec.GroupBy.Value = normalizeNumbers(spec.GroupBy.Value)
	}

	return spec, nil
}

func normalizeNumbers(value any) any {
	switch typed := value.(type) {
	case json.Number:
		if i, err := typed.Int64(); err == nil {
			return i
		}

		f, err := typed.Float64()
		if err != nil {
			return typed.String()
		}

		return f
	case model.Record:
		for key, nested := range typed {
			typed[key] = normalizeNumbers(nested)
		}

		return typed
	case map[string]any:
		for key, nested := range typed {
			typed[key] = normalizeNumbers(nested)
		}

		return typed
	case []any:
		for i, nested := range typed {
			typed[i] = normalizeNumbers(nested)
		}

		return typed
	default:
		return value
	}
}
