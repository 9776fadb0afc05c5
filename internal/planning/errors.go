package planning

import "errors"

// Error kinds shared by every mealboard package. Callers wrap them with
// fmt.Errorf("%w: ...") and handlers map them with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid range")
)
