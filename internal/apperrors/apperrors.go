// Package apperrors defines the error kinds the core services return. They
// are sentinel errors so callers can classify with errors.Is regardless of
// the wrapping detail message; the HTTP layer maps each kind to a status.
package apperrors

import "errors"

var (
	// ErrNotFound means a referenced entity or identity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the acting user lacks the required role: not the
	// group admin, not the request owner, not a participant.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means malformed input: empty name, name too long,
	// empty member list.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTarget means the operation target equals the actor where
	// that is disallowed (self friend request, self conversation).
	ErrInvalidTarget = errors.New("invalid target")

	// ErrDuplicateRequest means an active friend request already exists
	// between the pair, in either direction.
	ErrDuplicateRequest = errors.New("friend request already exists")

	// ErrDuplicateMember means the user is already in the group.
	ErrDuplicateMember = errors.New("member already in group")

	// ErrAlreadyFriends means the two users are already linked.
	ErrAlreadyFriends = errors.New("users are already friends")

	// ErrInvalidState means the entity is not in the state the operation
	// requires, e.g. accepting or cancelling a non-pending request.
	ErrInvalidState = errors.New("invalid state")

	// ErrInconsistentState means a two-sided write failed partway and could
	// not be compensated, leaving the friend graph asymmetric. It must be
	// logged and alerted, never swallowed.
	ErrInconsistentState = errors.New("inconsistent friend graph state")
)
