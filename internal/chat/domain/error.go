package domain

import "errors"

var (
	ErrChatNotFound  = errors.New("chat not found")
	ErrChatForbidden = errors.New("chat belongs to another user")
	ErrInvalidTitle  = errors.New("chat title is required")
	ErrInvalidStatus = errors.New("invalid chat status")
	ErrInvalidRole   = errors.New("invalid message role")
	ErrEmptyMessage  = errors.New("message content is required")
)
