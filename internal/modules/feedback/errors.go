package feedback

import "errors"

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrNotFound         = errors.New("feedback not found")
	ErrRateLimited      = errors.New("feedback already submitted recently")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus    = errors.New("invalid feedback status")
)
