package visitors

import "errors"

var (
	// ErrMissingConversationID is returned when the conversation id is empty
	ErrMissingConversationID = errors.New("conversation id is required")

	// ErrInvalidName is returned when the name is invalid
	ErrInvalidName = errors.New("name is required")

	// ErrMissingEmail is returned when the email is missing
	ErrMissingEmail = errors.New("email is required")

	// ErrVisitorNotFound is returned when a visitor is not found
	ErrVisitorNotFound = errors.New("visitor not found")
)
