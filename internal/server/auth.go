package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/lumonlabs/severatee/internal/auth/domain"
	"github.com/lumonlabs/severatee/internal/auth/password"
	profiledomain "github.com/lumonlabs/severatee/internal/profile/domain"
)

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.authsvc.CreateUser(c.Request.Context(), authdomain.CreateUserRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if _, err := s.profilesvc.EnsureInitial(c.Request.Context(), user.ID, user.Email); err != nil &&
		!errors.Is(err, profiledomain.ErrProfileExists) {
		AbortWithError(c, err)
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.sessions.Set(c, result.RawToken, result.ExpiresAt)

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":           user.ID.String(),
			"email":        user.Email,
			"display_name": user.DisplayName,
		},
		"session": result.Session,
	})
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	c.JSON(http.StatusOK, result.Session)
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil &&
			!errors.Is(err, authdomain.ErrSessionNotFound) &&
			!errors.Is(err, authdomain.ErrInvalidSession) {
			AbortWithError(c, err)
			return
		}
	}
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	user, err := s.authsvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{
		"id":           user.ID.String(),
		"email":        user.Email,
		"display_name": user.DisplayName,
	}

	profile, err := s.profilesvc.GetByUserID(c.Request.Context(), userID)
	if err == nil {
		resp["profile"] = profile
	} else if !errors.Is(err, profiledomain.ErrProfileNotFound) {
		AbortWithError(c, err)
		return
	}

	if session, ok := currentSession(c); ok && session.ActiveWorkspaceID != nil {
		resp["active_workspace_id"] = *session.ActiveWorkspaceID
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	currentPassword := strings.TrimSpace(req.CurrentPassword)
	newPassword := strings.TrimSpace(req.NewPassword)
	if currentPassword == "" {
		AbortWithError(c, newValidationError("current_password", "required", "current password is required"))
		return
	}
	if newPassword == "" {
		AbortWithError(c, newValidationError("new_password", "required", "new password is required"))
		return
	}
	if currentPassword == newPassword {
		AbortWithError(c, newValidationError("new_password", "must_differ", "new password must be different"))
		return
	}
	if len(newPassword) < 8 {
		AbortWithError(c, newValidationError("new_password", "weak_password", "password must be at least 8 characters"))
		return
	}

	user, err := s.authsvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if user.PasswordHash == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if !password.Verify(currentPassword, *user.PasswordHash) {
		AbortWithError(c, authdomain.ErrInvalidCredentials)
		return
	}

	if err := s.authsvc.ChangePassword(c.Request.Context(), userID.String(), newPassword); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UseWorkspace records the caller's workspace selection on the session row so
// it survives across devices.
func (s *Server) UseWorkspace(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	session, ok := currentSession(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}

	// Membership check happens inside GetWorkspace.
	if _, err := s.workspacesvc.GetWorkspace(c.Request.Context(), userID, workspaceID); err != nil {
		AbortWithError(c, err)
		return
	}

	workspaces, err := s.workspacesvc.GetUserWorkspaces(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	ids := make([]int64, 0, len(workspaces))
	for _, ws := range workspaces {
		ids = append(ids, int64(ws.Workspace.ID))
	}

	active := int64(workspaceID)
	if err := s.authsvc.UpdateSessionWorkspaceContext(c.Request.Context(), session.ID, &active, ids); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active_workspace_id": workspaceID.String(),
		"workspace_ids":       ids,
	})
}

func (s *Server) ListUserWorkspaces(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	workspaces, err := s.workspacesvc.GetUserWorkspaces(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

func (s *Server) ListUserInvitations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	invitations, err := s.workspacesvc.GetUserInvitations(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

func (s *Server) AcceptInvitation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	invitationID, ok := parseID(c.Param("invitationId"))
	if !ok {
		AbortWithError(c, newValidationError("invitationId", "invalid_id", "invalid invitation id"))
		return
	}

	resp, err := s.workspacesvc.AcceptInvitation(c.Request.Context(), userID, invitationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
