package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. overlapping age bands, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrPackageUnknown is returned when a price resolution names a package that
// does not belong to the tour. This is a caller error, never retried and never
// defaulted to another package.
var ErrPackageUnknown = errors.New("package unknown for tour")

// ErrDateUnknown is returned when a price resolution names a departure date
// that does not belong to the tour.
var ErrDateUnknown = errors.New("date unknown for tour")
