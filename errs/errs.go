package errs

import (
	"errors"
	"fmt"
)

var (
	Unauthenticated = NewUnauthenticatedError("unauthenticated")
)

type Error struct {
	Kind    Kind
	Message string
	Field   *string
}

type Kind string

const (
	KindInvalidArgument  Kind = "invalid_argument"
	KindNotFound         Kind = "not_found"
	KindAlreadyExists    Kind = "already_exists"
	KindPermissionDenied Kind = "permission_denied"
	KindUnauthenticated  Kind = "unauthenticated"
	KindInvalidState     Kind = "invalid_state"
	KindDependencyFailed Kind = "dependency_failed"
)

func NewInvalidArgumentError(field, message string) *Error {
	return &Error{
		Kind:    KindInvalidArgument,
		Message: message,
		Field:   &field,
	}
}

func NewNotFoundError(message string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: message,
	}
}

func NewAlreadyExistsError(field, message string) *Error {
	return &Error{
		Kind:    KindAlreadyExists,
		Message: message,
		Field:   &field,
	}
}

func NewPermissionDeniedError(message string) *Error {
	return &Error{
		Kind:    KindPermissionDenied,
		Message: message,
	}
}

func NewUnauthenticatedError(message string) *Error {
	return &Error{
		Kind:    KindUnauthenticated,
		Message: message,
	}
}

func NewInvalidStateError(message string) *Error {
	return &Error{
		Kind:    KindInvalidState,
		Message: message,
	}
}

func NewDependencyFailedError(message string) *Error {
	return &Error{
		Kind:    KindDependencyFailed,
		Message: message,
	}
}

func (e *Error) Error() string {
	if e.Field != nil {
		return fmt.Sprintf("%s (field: %s): %s", e.Kind, *e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsAlreadyExists(err error) bool { return KindOf(err) == KindAlreadyExists }

func IsPermissionDenied(err error) bool { return KindOf(err) == KindPermissionDenied }

func IsUnauthenticated(err error) bool { return KindOf(err) == KindUnauthenticated }

func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }

func IsDependencyFailed(err error) bool { return KindOf(err) == KindDependencyFailed }
