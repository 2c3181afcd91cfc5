package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that wrapped variants with a more
// specific message still satisfy errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound                = "NOT_FOUND"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeInvalidReference        = "INVALID_REFERENCE"
	CodeMissingCustomerIdentity = "MISSING_CUSTOMER_IDENTITY"
	CodeEmptyOrderItems         = "EMPTY_ORDER_ITEMS"
	CodeConstraintViolation     = "CONSTRAINT_VIOLATION"
)

// Common domain errors
var (
	ErrNotFound                = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput            = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidReference        = NewDomainError(CodeInvalidReference, "Referenced resource does not exist")
	ErrMissingCustomerIdentity = NewDomainError(CodeMissingCustomerIdentity, "One of customerId, contactId or isQuickSale is required")
	ErrEmptyOrderItems         = NewDomainError(CodeEmptyOrderItems, "Order must contain at least one item")
	ErrConstraintViolation     = NewDomainError(CodeConstraintViolation, "Write rejected by a store constraint")
)

// ErrorCode returns the domain code carried by err, or "" when err is not a
// domain error.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
