// Package apperr defines the application error taxonomy. Services return
// these errors; handlers map them to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	// KindValidation indicates malformed or invalid input.
	KindValidation Kind = iota
	// KindForbidden indicates a failed role or ownership check.
	KindForbidden
	// KindNotFound indicates a referenced entity is absent or out of scope.
	KindNotFound
	// KindConflict indicates a duplicate or an illegal state transition.
	KindConflict
	// KindInsufficientStock indicates a requested quantity exceeds availability.
	KindInsufficientStock
)

// Error is an application error with a classification.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation returns a KindValidation error.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Forbidden returns a KindForbidden error.
func Forbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict returns a KindConflict error.
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports a stock shortage for a specific product.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// KindOf reports the Kind of err, or ok=false if err is not an application error.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return KindInsufficientStock, true
	}
	return 0, false
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
