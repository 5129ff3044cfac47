// Package authorization enforces the workspace role-permission matrix at the
// HTTP boundary. Policies are derived from the static table in the workspace
// domain so the two can never drift.
package authorization

import (
	"context"
	"errors"
)

const ObjectWorkspace = "workspace"

var (
	ErrInvalidActor     = errors.New("invalid actor")
	ErrInvalidWorkspace = errors.New("invalid workspace")
	ErrInvalidAction    = errors.New("invalid action")
	ErrForbidden        = errors.New("forbidden")
)

type Service interface {
	// Authorize checks whether the actor may perform the given permission
	// in the workspace. Actors are "user:<id>" or "system".
	Authorize(ctx context.Context, actor string, workspaceID string, permission string) error
}
