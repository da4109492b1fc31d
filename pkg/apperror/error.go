// Package apperror classifies failures so the console can decide whether an
// error is reported and the menu shown again, or the process stops.
package apperror

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type Code string

const (
	CodeValidation Code = "validation"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeStorage    Code = "storage"
	CodeInternal   Code = "internal"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

// IsRecoverable reports whether the user can correct the input and try again.
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case CodeValidation, CodeNotFound, CodeConflict:
		return true
	default:
		return false
	}
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}

// PostgreSQL SQLSTATE codes the store can raise on user input.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateNotNullViolation    = "23502"
	sqlStateCheckViolation      = "23514"
	sqlStateInvalidText         = "22P02"
	sqlStateNumericOutOfRange   = "22003"
	sqlStateStringTooLong       = "22001"
)

// FromPostgres maps a driver error onto the taxonomy. Errors that are not
// caused by the statement's arguments become CodeStorage.
func FromPostgres(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return Wrap(CodeStorage, err, err.Error())
	}

	switch string(pqErr.Code) {
	case sqlStateUniqueViolation:
		return Wrap(CodeConflict, err, pqErr.Message)
	case sqlStateForeignKeyViolation:
		return Wrap(CodeNotFound, err, pqErr.Message)
	case sqlStateNotNullViolation, sqlStateCheckViolation, sqlStateInvalidText,
		sqlStateNumericOutOfRange, sqlStateStringTooLong:
		return Wrap(CodeValidation, err, pqErr.Message)
	default:
		return Wrap(CodeStorage, err, pqErr.Message)
	}
}
