// Package store defines the narrow interface the application uses to talk
// to its remote entry store, plus the concrete Firestore and PostgreSQL
// backends and a best-effort Redis cache wrapper.
package store

import (
	"context"
	"errors"
	"fmt"

	"io.winapps.explorerdiary/internal/journal"
)

// Order is the retrieval-order contract for timeline queries.
type Order struct {
	Field     string // "date" or "createdAt"
	Direction journal.SortDirection
}

// ErrNotFound is returned when an entry does not exist or belongs to a
// different owner.
var ErrNotFound = errors.New("entry not found")

// EntryStore is the required interface to the remote entry store. Entries
// are insert-only apart from out-of-band deletion; there is no update.
type EntryStore interface {
	Insert(ctx context.Context, entry journal.Entry) (string, error)
	Get(ctx context.Context, ownerID, id string) (*journal.Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
	// QueryByOwner returns the owner's entries in the requested order.
	// limit <= 0 means no limit. Ties on the order field are broken by
	// createdAt so repeated fetches agree on ordering.
	QueryByOwner(ctx context.Context, ownerID string, order Order, limit int) ([]journal.Entry, error)
}

// Code classifies a store failure into the fixed set of user-reportable
// reasons. The set mirrors the backend service's own error codes.
type Code string

const (
	CodePermissionDenied Code = "permission-denied"
	CodeUnavailable      Code = "unavailable"
	CodeUnauthenticated  Code = "unauthenticated"
	CodeQuotaExceeded    Code = "quota-exceeded"
	CodeNetwork          Code = "network"
	CodeOther            Code = "other"
)

// Error is a classified store failure.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf extracts the classification from an error chain, defaulting to
// CodeOther for unclassified failures.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeOther
}

// Message maps a code to the human-readable reason shown to the operator.
func Message(code Code) string {
	switch code {
	case CodePermissionDenied:
		return "You don't have permission to save entries. Please check your account."
	case CodeUnavailable:
		return "Database is currently unavailable. Please try again later."
	case CodeUnauthenticated:
		return "Your session has expired. Please log in again."
	case CodeQuotaExceeded:
		return "Storage quota exceeded. Please contact support."
	case CodeNetwork:
		return "Network error. Please check your internet connection."
	default:
		return "Failed to save adventure. Please try again."
	}
}
