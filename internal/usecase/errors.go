package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrConcurrentUpdate      = errors.New("concurrent update detected")
	ErrDatabase              = errors.New("database failure")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Specializations of ErrPermissionDenied so the transport layer can tell
// a sport-scope rejection from a venue-scope rejection.
var (
	ErrSportNotAssigned = fmt.Errorf("%w: sport is not in your assignment", ErrPermissionDenied)
	ErrVenueNotAssigned = fmt.Errorf("%w: venue is not in your assignment", ErrPermissionDenied)
)
