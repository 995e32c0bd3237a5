// Package apperr maps service errors onto a fixed taxonomy so that every
// handler reports failures the same way. The classes come from
// containerd/errdefs; InvalidTransition is the one domain-specific addition
// for illegal order-status edges.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/containerd/errdefs"
)

// ErrInvalidTransition marks an order-status update whose edge is not in the
// lifecycle state machine. It is rejected before any write is attempted.
var ErrInvalidTransition = errors.New("invalid status transition")

// Unauthenticated wraps msg as a missing-principal failure.
func Unauthenticated(msg string) error {
	return fmt.Errorf("%s: %w", msg, errdefs.ErrUnauthenticated)
}

// PermissionDenied wraps msg as an insufficient-role failure.
func PermissionDenied(msg string) error {
	return fmt.Errorf("%s: %w", msg, errdefs.ErrPermissionDenied)
}

// InvalidArgument wraps msg as a malformed-input failure.
func InvalidArgument(msg string) error {
	return fmt.Errorf("%s: %w", msg, errdefs.ErrInvalidArgument)
}

// AlreadyExists wraps msg as a duplicate-identity failure.
func AlreadyExists(msg string) error {
	return fmt.Errorf("%s: %w", msg, errdefs.ErrAlreadyExists)
}

// FailedPrecondition wraps msg as an invariant-violation failure.
func FailedPrecondition(msg string) error {
	return fmt.Errorf("%s: %w", msg, errdefs.ErrFailedPrecondition)
}

// NotFound wraps msg as a missing-document failure.
func NotFound(msg string) error {
	return fmt.Errorf("%s: %w", msg, errdefs.ErrNotFound)
}

// Internal wraps err as an unclassified remote failure, keeping the cause.
func Internal(err error) error {
	return fmt.Errorf("%w: %v", errdefs.ErrInternal, err)
}

// InvalidTransition reports an illegal order-status edge.
func InvalidTransition(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// IsInvalidTransition reports whether err is an illegal-edge rejection.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsNotFound reports whether err is a missing-document failure.
func IsNotFound(err error) bool {
	return errdefs.IsNotFound(err)
}

// StatusCode translates an error into the HTTP status the handlers return.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errdefs.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errdefs.IsPermissionDenied(err):
		return http.StatusForbidden
	case errdefs.IsInvalidArgument(err):
		return http.StatusBadRequest
	case errdefs.IsAlreadyExists(err):
		return http.StatusConflict
	case errdefs.IsFailedPrecondition(err):
		return http.StatusPreconditionFailed
	case errdefs.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Write sends err to the client as {"detail": "..."} with the mapped status.
func Write(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(err))
	json.NewEncoder(w).Encode(map[string]string{"detail": err.Error()})
}
