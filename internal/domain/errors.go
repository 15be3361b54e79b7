package domain

import (
	"errors"
	"fmt"
	"time"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// DateOrderError reports a trip whose start is not strictly before its end.
type DateOrderError struct {
	Start time.Time
	End   time.Time
}

func (e DateOrderError) Error() string {
	return "the trip end date must be after the start date"
}

// Field names the input the error belongs to.
func (e DateOrderError) Field() string { return "trip_end_date" }

// TravelerCountError reports a traveler count outside [Min, Max].
type TravelerCountError struct {
	Count int
	Min   int
	Max   int
}

func (e TravelerCountError) Error() string {
	return fmt.Sprintf("number of travelers must be between %d and %d", e.Min, e.Max)
}

func (e TravelerCountError) Field() string { return "number_of_travelers" }

// NoPricingAvailableError means neither a covering window nor a positive default exists.
type NoPricingAvailableError struct {
	DistrictID int64
}

func (e NoPricingAvailableError) Error() string {
	return "no pricing information available for the selected district"
}

// PersistenceError wraps a storage-layer failure. Its message never leaks the cause.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	if e.Op == "" {
		return "storage failure"
	}
	return fmt.Sprintf("%s: storage failure", e.Op)
}

func (e PersistenceError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type UnauthenticatedError struct {
	Msg string
	Err error
}

func (e UnauthenticatedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthenticated"
}

func (e UnauthenticatedError) Unwrap() error { return e.Err }

type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// FieldError is implemented by errors that belong to a single input field.
type FieldError interface {
	error
	Field() string
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// IsValidation covers generic validation failures as well as the booking input checks.
func IsValidation(err error) bool {
	var (
		v  ValidationError
		do DateOrderError
		tc TravelerCountError
	)
	return errors.As(err, &v) || errors.As(err, &do) || errors.As(err, &tc)
}

func IsDateOrder(err error) bool {
	var target DateOrderError
	return errors.As(err, &target)
}

func IsTravelerCount(err error) bool {
	var target TravelerCountError
	return errors.As(err, &target)
}

func IsNoPricing(err error) bool {
	var target NoPricingAvailableError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target PersistenceError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnauthenticated(err error) bool {
	var target UnauthenticatedError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// InputField returns the field name carried by err, or "".
func InputField(err error) string {
	var fe FieldError
	if errors.As(err, &fe) {
		return fe.Field()
	}
	var v ValidationError
	if errors.As(err, &v) {
		return v.Field
	}
	return ""
}
