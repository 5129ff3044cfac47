package domain

import "errors"

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrInvalidName         = errors.New("task name is required")
	ErrInvalidInstructions = errors.New("task instructions are required")
	ErrInvalidStatus       = errors.New("invalid task status")
	ErrInvalidProgress     = errors.New("progress must be between 0 and 100")
	ErrInvalidAnswer       = errors.New("answer is required")
	ErrTaskUnassigned      = errors.New("task has no assigned agent")
	ErrInvalidPageToken    = errors.New("invalid page token")
	ErrNoSubmission        = errors.New("task has no submission")
)
