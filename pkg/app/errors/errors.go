// Package errors contains the service error type shared by the HTTP layer and
// the permit validator. A ServiceError carries a Category that decides the HTTP
// status, a Message that is safe to show to callers, and the wrapped cause.
package errors

import (
	"errors"
	"net/http"
)

// Category defines error category
type Category int

const (
	// CategoryNoError marks a successful outcome
	CategoryNoError Category = iota
	// CategoryDataError The client sent invalid data (malformed identity, hash or nonce)
	CategoryDataError
	// CategoryUnauthorized The client did not present valid credentials
	CategoryUnauthorized
	// CategoryForbidden The client is known but not allowed to perform the action
	CategoryForbidden
	// CategoryResourceNotFound The client is attempting to access a resource that does not exist
	CategoryResourceNotFound
	// CategoryDataConflict The request conflicts with state already recorded
	CategoryDataConflict
	// CategoryCanceled The request was abandoned by the client or timed out before completing
	CategoryCanceled
	// CategoryDependencyFailure A dependent service is throwing errors
	CategoryDependencyFailure
	// CategoryGeneralError The service failed in an unexpected way
	CategoryGeneralError
)

func (c Category) String() string {
	switch c {
	case CategoryNoError:
		return "CategoryNoError"
	case CategoryDataError:
		return "CategoryDataError"
	case CategoryUnauthorized:
		return "CategoryUnauthorized"
	case CategoryForbidden:
		return "CategoryForbidden"
	case CategoryResourceNotFound:
		return "CategoryResourceNotFound"
	case CategoryDataConflict:
		return "CategoryDataConflict"
	case CategoryCanceled:
		return "CategoryCanceled"
	case CategoryDependencyFailure:
		return "CategoryDependencyFailure"
	default:
		return "CategoryGeneralError"
	}
}

// ServiceError represents service specific type that
// is used all over the services.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

// Error method to comply with error interface
func (err ServiceError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	return err.Message
}

// Unwrap returns the underlying error
func (err ServiceError) Unwrap() error {
	return err.Err
}

// Is checks that provided error is a ServiceError with desired Category
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// CategoryOf returns the category of err, CategoryGeneralError for errors
// that are not service errors and CategoryNoError for nil.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryNoError
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Category
	}
	return CategoryGeneralError
}

// IsInternalError checks that provided error is an internal system error
func IsInternalError(err error) bool {
	return CategoryOf(err) >= CategoryDependencyFailure
}

func newError(cat Category, err error, fallback, message string) error {
	if err == nil {
		err = errors.New(fallback)
	}
	return &ServiceError{
		Category: cat,
		Message:  message,
		Err:      err,
	}
}

// GeneralError returns a general service error.
// The message sent to the user is "Internal Server Error", the cause is only logged.
func GeneralError(err error) error {
	return newError(CategoryGeneralError, err, "internal server error", "Internal Server Error")
}

// ResourceNotFoundError returns an error with category ResourceNotFound
func ResourceNotFoundError(err error, message string) error {
	return newError(CategoryResourceNotFound, err, "resource not found: "+message, message)
}

// BadRequestError returns an error with category DataError.
// The message provided is returned to the user.
func BadRequestError(err error, message string) error {
	return newError(CategoryDataError, err, "bad request: "+message, message)
}

// ForbiddenError returns an error with category CategoryForbidden
func ForbiddenError(err error, message string) error {
	return newError(CategoryForbidden, err, "request forbidden", message)
}

// UnAuthorizedError returns an error with category CategoryUnauthorized
func UnAuthorizedError(err error, message string) error {
	return newError(CategoryUnauthorized, err, "unauthorized", message)
}

// ConflictError returns an error with category CategoryDataConflict
func ConflictError(err error, message string) error {
	return newError(CategoryDataConflict, err, "conflict", message)
}

// StatusCode returns the HTTP status code for the error category
func (err ServiceError) StatusCode() int {
	switch err.Category {
	case CategoryDataError:
		return http.StatusBadRequest
	case CategoryUnauthorized:
		return http.StatusUnauthorized
	case CategoryForbidden:
		return http.StatusForbidden
	case CategoryResourceNotFound:
		return http.StatusNotFound
	case CategoryDataConflict:
		return http.StatusConflict
	case CategoryCanceled:
		return http.StatusServiceUnavailable
	case CategoryDependencyFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CanceledError returns an error with category CategoryCanceled
func CanceledError(err error) error {
	return newError(CategoryCanceled, err, "request canceled", "request canceled")
}
