package models

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound          ErrorKind = "not_found"
	KindInvalidArgument   ErrorKind = "invalid_argument"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindInvalidStatus     ErrorKind = "invalid_status"
	KindStorage           ErrorKind = "storage_failure"
)

var (
	ErrNotFound          = &AppError{Kind: KindNotFound, Message: "not found"}
	ErrInvalidArgument   = &AppError{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrInvalidTransition = &AppError{Kind: KindInvalidTransition, Message: "invalid transition"}
	ErrInvalidStatus     = &AppError{Kind: KindInvalidStatus, Message: "invalid status"}
	ErrStorage           = &AppError{Kind: KindStorage, Message: "storage failure"}
)

// AppError carries a machine-readable kind next to the human message.
// Two AppErrors match under errors.Is when their kinds are equal.
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NotFound(format string, args ...interface{}) error {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...interface{}) error {
	return &AppError{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...interface{}) error {
	return &AppError{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func InvalidStatus(format string, args ...interface{}) error {
	return &AppError{Kind: KindInvalidStatus, Message: fmt.Sprintf(format, args...)}
}

func StorageFailure(message string, cause error) error {
	return &AppError{Kind: KindStorage, Message: message, Cause: cause}
}

// KindOf reports the kind of err. Errors that never passed through the
// taxonomy are storage failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStorage
}
