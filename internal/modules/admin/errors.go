package admin

import "errors"

var (
	ErrBusinessNotFound = errors.New("business not found")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrNoReply          = errors.New("feedback has no admin reply")
	ErrAlreadyDeleted   = errors.New("feedback already deleted")
	ErrNotDeleted       = errors.New("feedback is not deleted")
)
