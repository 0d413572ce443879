package session

import "errors"

// ErrSessionNotFound signals a lookup for a session id that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// ErrCancellationWindowExpired signals a cancellation attempt inside the
// configured pre-start window. The mentee forfeits the charge instead.
var ErrCancellationWindowExpired = errors.New("cancellation window has expired")

// ErrNotParticipant signals a caller acting on a session they are not part of.
var ErrNotParticipant = errors.New("caller is not a participant of this session")
