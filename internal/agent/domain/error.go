package domain

import "errors"

var (
	ErrAgentNotFound = errors.New("agent not found")
	ErrInvalidName   = errors.New("agent name is required")
	ErrInvalidStatus = errors.New("invalid agent status")
	ErrWalletTaken   = errors.New("wallet address already in use")
)
