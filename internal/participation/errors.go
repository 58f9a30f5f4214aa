// Package participation implements the participation and capacity
// consistency engine: the ledger of (match, user) participation rows, the
// idempotent slot-to-match lifecycle, availability synchronization for
// schedule slots and the match readiness predicate.  All capacity-changing
// operations run inside a single storage transaction so that the roster
// bounds hold under concurrent requests.
package participation

import "errors"

// ErrNotFound is returned when a referenced schedule, match or participant
// row does not exist.  Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrCapacityExceeded is returned by Join when the match roster or the
// requested team is already at its bound.  It is a conflict, not a
// validation failure; handlers translate it into an HTTP 409 response and
// callers may retry on another team or match.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrInvalidSchedule is returned when a schedule slot cannot seed a match
// because its day value is not a well-formed YYYY-MM-DD calendar date.
// Handlers translate it into an HTTP 422 response.
var ErrInvalidSchedule = errors.New("invalid schedule day")

// ErrInvalidTeam is returned when a join names a team outside the two
// fixed teams of a match.
var ErrInvalidTeam = errors.New("invalid team")

// ErrInvalidStatus is returned when an administrative status update names
// an unknown acceptance state.
var ErrInvalidStatus = errors.New("invalid participant status")
