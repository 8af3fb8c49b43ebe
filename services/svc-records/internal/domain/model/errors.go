package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound              = errors.New("record not found")
	ErrValidation            = errors.New("validation failed")
	ErrConfigurationMissing  = errors.New("schema binding not configured")
	ErrUnexpected            = errors.New("unexpected failure")
	ErrInvalidID             = errors.New("invalid record ID")
	ErrDuplicateRecord       = errors.New("record already exists")
	ErrDatabaseQuery         = errors.New("database query error")
	ErrUnknownEntity         = errors.New("unknown entity")
	ErrSoftDeleteUnsupported = errors.New("entity does not support soft delete")
)

type (
	// NotFoundError names the entity and identifier that could not be located.
	NotFoundError struct {
		Entity string
		ID     any
	}

	// ConfigurationMissingError reports a create/update operation without a registered input schema.
	ConfigurationMissingError struct {
		Owner     string
		Operation string
	}

	ValidationError struct {
		Field   string
		Message string
		Code    string
	}

	// ValidationErrors aggregates every field-level violation of a payload.
	ValidationErrors struct {
		Errors []ValidationError
	}
)

func NewNotFoundError(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *ConfigurationMissingError) Error() string {
	return fmt.Sprintf("no input schema registered for %s.%s", e.Owner, e.Operation)
}

func (e *ConfigurationMissingError) Is(target error) bool {
	return target == ErrConfigurationMissing
}

func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ErrValidation.Error()
	}

	messages := make([]string, 0, len(v.Errors))
	for _, violation := range v.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", violation.Field, violation.Message))
	}

	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(messages, "; "))
}

func (v *ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

func (v *ValidationErrors) Add(field, message, code string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Fields lists the violated field names in reporting order.
func (v *ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v.Errors))
	for _, violation := range v.Errors {
		fields = append(fields, violation.Field)
	}

	return fields
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ValidationError, 0),
	}
}

// IsClientError reports whether err is caller-actionable and must keep its kind across layers.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrDuplicateRecord) ||
		errors.Is(err, ErrSoftDeleteUnsupported)
}
