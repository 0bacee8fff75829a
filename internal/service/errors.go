package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/snnyvrz/bookcatalog/internal/validation"
	"gorm.io/gorm"
)

// ValidationError rejects input that breaks a field rule or a uniqueness
// check. No state has been changed when it is returned.
type ValidationError struct {
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	fields := e.Errors.Fields()
	return "validation failed: " + strings.Join(fields, ", ")
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s (%v) was not found", e.Entity, e.Key)
}

// BusinessRuleError rejects a well-formed request that would break a
// cross-entity invariant.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func validate(input any) error {
	if errs := validation.Validate(input); len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func fieldError(field, message string) error {
	errs := validation.Errors{}
	errs.Add(field, message)
	return &ValidationError{Errors: errs}
}

func requirePositive(field string, id int) error {
	if id <= 0 {
		return fieldError(field, field+" must be greater than 0")
	}
	return nil
}

func notFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// lookup translates gorm.ErrRecordNotFound into a NotFoundError and wraps
// anything else.
func lookup(err error, entity string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity, key)
	}
	return fmt.Errorf("find %s %v: %w", strings.ToLower(entity), key, err)
}

func violation(format string, args ...any) error {
	return &BusinessRuleError{Message: fmt.Sprintf(format, args...)}
}
