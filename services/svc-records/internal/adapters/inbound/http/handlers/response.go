package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/architeacher/records/pkg/logger"
	"github.com/architeacher/records/services/svc-records/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
)

const (
	contentTypeHeader = "Content-Type"
	applicationJSON   = "application/json"

	codeNotFound             = "NOT_FOUND"
	codeValidationFailed     = "VALIDATION_FAILED"
	codeInvalidID            = "INVALID_ID"
	codeInvalidJSON          = "INVALID_JSON"
	codeInvalidParameter     = "INVALID_PARAMETER"
	codeUnsupportedOperation = "UNSUPPORTED_OPERATION"
	codeConflict             = "CONFLICT"
	codeInternalError        = "INTERNAL_ERROR"

	msgInternalError      = "internal server error"
	msgInvalidRequestBody = "invalid request body"
)

type (
	ErrorDetail struct {
		Field   string `json:"field"`
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	}

	ErrorResponse struct {
		Code      string        `json:"code"`
		Message   string        `json:"message"`
		Details   []ErrorDetail `json:"details,omitempty"`
		RequestID string        `json:"requestId,omitempty"`
		Timestamp time.Time     `json:"timestamp"`
	}

	recordResponse struct {
		Data any `json:"data"`
	}

	listMeta struct {
		Count  int    `json:"count"`
		Limit  uint64 `json:"limit,omitempty"`
		Offset uint64 `json:"offset,omitempty"`
	}

	listResponse struct {
		Data any      `json:"data"`
		Meta listMeta `json:"meta"`
	}
)

func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set(contentTypeHeader, applicationJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string, details ...ErrorDetail) {
	writeJSONResponse(w, status, ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

// writeDomainError maps the error taxonomy onto HTTP statuses. Anything not
// caller-actionable is answered with a generic 500 and logged with its detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var violations *model.ValidationErrors

	switch {
	case errors.As(err, &violations):
		details := make([]ErrorDetail, 0, len(violations.Errors))
		for _, violation := range violations.Errors {
			details = append(details, ErrorDetail{
				Field:   violation.Field,
				Message: violation.Message,
				Code:    violation.Code,
			})
		}

		writeErrorResponse(w, r, http.StatusBadRequest, codeValidationFailed, model.ErrValidation.Error(), details...)
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrUnknownEntity):
		writeErrorResponse(w, r, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidID):
		writeErrorResponse(w, r, http.StatusBadRequest, codeInvalidID, err.Error())
	case errors.Is(err, model.ErrSoftDeleteUnsupported):
		writeErrorResponse(w, r, http.StatusBadRequest, codeUnsupportedOperation, err.Error())
	case errors.Is(err, model.ErrDuplicateRecord):
		writeErrorResponse(w, r, http.StatusConflict, codeConflict, model.ErrDuplicateRecord.Error())
	default:
		reqLogger := log.WithContext(r.Context())
		reqLogger.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")

		writeErrorResponse(w, r, http.StatusInternalServerError, codeInternalError, msgInternalError)
	}
}
