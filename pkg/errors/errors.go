package errors

import "fmt"

// ApplicationError represents a domain-specific error
type ApplicationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// Error constructors
func NewValidationError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  400,
	}
}

// NewInvalidQuantityError wraps the aggregate's quantity-bound violation for
// the HTTP surface.
func NewInvalidQuantityError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "INVALID_QUANTITY",
		Message: message,
		Status:  400,
	}
}

// NewInvalidCustomerError signals that the referenced customer does not exist
// or does not hold the Customer role.
func NewInvalidCustomerError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "INVALID_CUSTOMER",
		Message: message,
		Status:  422,
	}
}

func NewNotFoundError(resource string) *ApplicationError {
	return &ApplicationError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
	}
}

func NewConflictError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "CONFLICT",
		Message: message,
		Status:  409,
	}
}

func NewUnauthorizedError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  401,
	}
}

func NewForbiddenError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  403,
	}
}

func NewRequestTimeoutError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "REQUEST_TIMEOUT",
		Message: message,
		Status:  408,
	}
}

func NewTooManyRequestsError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "TOO_MANY_REQUESTS",
		Message: message,
		Status:  429,
	}
}

func NewInternalError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  500,
	}
}
