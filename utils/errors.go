package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindValidation
	KindConflict
)

// DomainError carries the error taxonomy shared by repositories, services and
// controllers. Messages name the offending field or id so they can be returned
// to the client as-is.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NotFoundf(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == KindNotFound
}

func IsValidation(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == KindValidation
}

func IsConflict(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == KindConflict
}

// StatusCode maps a domain error to its HTTP status. Anything outside the
// taxonomy is an internal failure.
func StatusCode(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
