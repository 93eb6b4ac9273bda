package bracket

import "errors"

// Typed failures surfaced by the seeding resolver, the bracket builder and
// the match advancement engine. Handlers map these to HTTP status codes.
var (
	ErrInvalidFieldSize       = errors.New("playoff field must contain at least two teams")
	ErrUnsupportedFormat      = errors.New("unsupported tournament format")
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchNotReady          = errors.New("match is waiting on an earlier result")
	ErrMatchAlreadyComplete   = errors.New("match already has a recorded winner")
	ErrInvalidWinner          = errors.New("winner is not part of this match")
	ErrConcurrentModification = errors.New("bracket was modified concurrently, reload and retry")
)
