package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	agentdomain "github.com/lumonlabs/severatee/internal/agent/domain"
	authdomain "github.com/lumonlabs/severatee/internal/auth/domain"
	"github.com/lumonlabs/severatee/internal/authorization"
	chatdomain "github.com/lumonlabs/severatee/internal/chat/domain"
	profiledomain "github.com/lumonlabs/severatee/internal/profile/domain"
	"github.com/lumonlabs/severatee/internal/providers/vault"
	taskdomain "github.com/lumonlabs/severatee/internal/task/domain"
	workspacedomain "github.com/lumonlabs/severatee/internal/workspace/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   "request",
					Code:    "invalid_value",
					Message: err.Error(),
				},
			},
		}
	}

	// The last-owner guard keeps its own message so clients can tell it
	// apart from a plain permission failure.
	if errors.Is(err, workspacedomain.ErrLastOwner) {
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: workspacedomain.ErrLastOwner.Error(),
		}
	}

	switch {
	case isUnauthorizedError(err):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isForbiddenError(err):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, workspacedomain.ErrInvalidName),
		errors.Is(err, workspacedomain.ErrInvalidRole),
		errors.Is(err, workspacedomain.ErrInvalidUser),
		errors.Is(err, workspacedomain.ErrInvalidWorkspace),
		errors.Is(err, workspacedomain.ErrInvalidEmail),
		errors.Is(err, workspacedomain.ErrEmailRequired),
		errors.Is(err, chatdomain.ErrInvalidTitle),
		errors.Is(err, chatdomain.ErrInvalidStatus),
		errors.Is(err, chatdomain.ErrInvalidRole),
		errors.Is(err, chatdomain.ErrEmptyMessage),
		errors.Is(err, agentdomain.ErrInvalidName),
		errors.Is(err, agentdomain.ErrInvalidStatus),
		errors.Is(err, taskdomain.ErrInvalidName),
		errors.Is(err, taskdomain.ErrInvalidInstructions),
		errors.Is(err, taskdomain.ErrInvalidStatus),
		errors.Is(err, taskdomain.ErrInvalidProgress),
		errors.Is(err, taskdomain.ErrInvalidAnswer),
		errors.Is(err, taskdomain.ErrInvalidPageToken),
		errors.Is(err, taskdomain.ErrTaskUnassigned):
		return true
	default:
		return false
	}
}

func isUnauthorizedError(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, authdomain.ErrSessionNotFound):
		return true
	default:
		return false
	}
}

func isForbiddenError(err error) bool {
	switch {
	case errors.Is(err, ErrForbidden),
		errors.Is(err, workspacedomain.ErrForbidden),
		errors.Is(err, workspacedomain.ErrEmailMismatch),
		errors.Is(err, workspacedomain.ErrInvitationExpired),
		errors.Is(err, chatdomain.ErrChatForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, workspacedomain.ErrSlugTaken),
		errors.Is(err, workspacedomain.ErrAlreadyMember),
		errors.Is(err, workspacedomain.ErrInvitePending),
		errors.Is(err, profiledomain.ErrProfileExists),
		errors.Is(err, profiledomain.ErrUsernameTaken),
		errors.Is(err, agentdomain.ErrWalletTaken):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, workspacedomain.ErrWorkspaceNotFound),
		errors.Is(err, workspacedomain.ErrMemberNotFound),
		errors.Is(err, workspacedomain.ErrInvitationNotFound),
		errors.Is(err, profiledomain.ErrProfileNotFound),
		errors.Is(err, chatdomain.ErrChatNotFound),
		errors.Is(err, agentdomain.ErrAgentNotFound),
		errors.Is(err, taskdomain.ErrTaskNotFound),
		errors.Is(err, taskdomain.ErrNoSubmission),
		errors.Is(err, vault.ErrRecordNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
