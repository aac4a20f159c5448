package conversation

import "errors"

var (
	// ErrConversationNotFound indicates no working history exists for the id.
	ErrConversationNotFound = errors.New("conversation: conversation not found")

	// ErrContextNotFound indicates the requested context name has no file.
	ErrContextNotFound = errors.New("conversation: context not found")

	// ErrEmptyMessage indicates the inbound message had no content.
	ErrEmptyMessage = errors.New("conversation: empty message")
)
