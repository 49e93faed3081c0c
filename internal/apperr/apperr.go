// Package apperr centralizes the mapping from domain failures to gRPC
// status codes behind typed constructors instead of ad hoc errors at
// call sites. RPC handlers in internal/service never call status.Error
// directly; they call the constructors here.
package apperr

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// InvalidArgument: malformed UUID, unknown job tag, out-of-range numeric,
// malformed bearer header.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

// Unauthenticated: unknown peer token, missing strategy session, bad JWT.
func Unauthenticated(msg string) error {
	return status.Error(codes.Unauthenticated, msg)
}

// PermissionDenied: private strategy without author, not editable, not
// elevated, wrong bcrypt password, non-author attempting an author-only op.
func PermissionDenied(msg string) error {
	return status.Error(codes.PermissionDenied, msg)
}

// FailedPrecondition: referential failure in an otherwise well-formed
// payload (player/damage/action/target not found, already elevated,
// duplicate id, entry not found, num_shared > max_shared).
func FailedPrecondition(msg string) error {
	return status.Error(codes.FailedPrecondition, msg)
}

// Aborted: session eviction, terminal on the event stream.
func Aborted(msg string) error {
	return status.Error(codes.Aborted, msg)
}

// Internal: unexpected persistence error; DB round-trips that are not
// explicitly recoverable are fatal to the request.
func Internal(msg string) error {
	return status.Error(codes.Internal, msg)
}

// Wrap classifies an opaque error from a lower layer (e.g. a driver error
// that didn't come from one of the constructors above) as Internal, unless
// it already carries a gRPC status, in which case it is passed through.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		if status.Code(err) != codes.Unknown {
			return err
		}
	}
	return Internal(err.Error())
}
