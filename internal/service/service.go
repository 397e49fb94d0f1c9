// Package service provides business logic for the application.
//
// Every operation performs at most one store call. Services only check that
// required fields are present; they enforce no uniqueness and no relation
// between messages and users.
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/chatboard/chatboard/internal/metrics"
	"github.com/chatboard/chatboard/internal/repository"
)

// Service errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidID    = errors.New("invalid user id")
)

// ValidationError reports missing required fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks the struct tags on input and converts failures into a
// ValidationError carrying message.
func validateInput(input any, message string) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	return &ValidationError{
		Message: message,
		Fields: lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
			return strings.ToLower(fe.Field())
		}),
	}
}

// observeStore times a store call and counts its failure. Lookup misses
// and malformed ids are caller errors and are not counted.
func observeStore(recorder metrics.Recorder, call func() error) error {
	start := time.Now()
	err := call()
	recorder.ObserveStoreDuration(time.Since(start))
	if err != nil && !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, repository.ErrInvalidID) {
		recorder.IncStoreError()
	}
	return err
}
