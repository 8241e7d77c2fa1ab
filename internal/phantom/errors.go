package phantom

import "errors"

// Error taxonomy. Configuration and range errors are unrecoverable and abort
// the composition that triggered them; ErrUndefined marks quantities that
// have no defined value (e.g. anisotropy of an empty mixture) and is returned
// rather than papered over with a zero.
var (
	ErrConfiguration = errors.New("invalid configuration")
	ErrOutOfRange    = errors.New("value out of range")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrUndefined     = errors.New("value undefined")
)
