package traffic

import "github.com/pkg/errors"

// Configuration errors. Every rejection returned by the World wraps one of
// these with the offending street, lane, binding or connection.
var (
	ErrInvalidStreet      = errors.New("invalid street")
	ErrDuplicateID        = errors.New("duplicate id")
	ErrUnknownStreet      = errors.New("unknown street")
	ErrUnknownParking     = errors.New("unknown parking")
	ErrOutOfRange         = errors.New("cell reference out of range")
	ErrRoleMismatch       = errors.New("incompatible street roles")
	ErrLaneMismatch       = errors.New("lane count mismatch")
	ErrDuplicateLink      = errors.New("lane already connected")
	ErrUnknownLink        = errors.New("unknown connection")
	ErrInvalidParking     = errors.New("invalid parking")
	ErrBindingCount       = errors.New("entry and exit binding counts differ")
	ErrTooManyBindings    = errors.New("too many binding pairs")
	ErrInvalidProbability = errors.New("probability outside [0,1]")
	ErrInvalidKey         = errors.New("invalid blocked cell key")
	ErrNotBlocked         = errors.New("cell is not blocked")
	ErrInUse              = errors.New("street still referenced")
	ErrRunning            = errors.New("simulation already running")
)
