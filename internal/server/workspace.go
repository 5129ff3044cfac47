package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	workspacedomain "github.com/lumonlabs/severatee/internal/workspace/domain"
)

type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

type CreateInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (s *Server) CreateWorkspace(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.workspacesvc.CreateWorkspace(c.Request.Context(), userID, workspacedomain.CreateWorkspaceRequest{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) GetWorkspace(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}

	resp, err := s.workspacesvc.GetWorkspace(c.Request.Context(), userID, workspaceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateWorkspace(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.workspacesvc.UpdateWorkspace(c.Request.Context(), userID, workspaceID, workspacedomain.UpdateWorkspaceRequest{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteWorkspace(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}

	if err := s.workspacesvc.DeleteWorkspace(c.Request.Context(), userID, workspaceID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) ListWorkspaceMembers(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}

	members, err := s.workspacesvc.GetWorkspaceMembers(c.Request.Context(), userID, workspaceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (s *Server) UpdateMemberRole(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}
	memberID, ok := parseID(c.Param("memberId"))
	if !ok {
		AbortWithError(c, newValidationError("memberId", "invalid_id", "invalid member id"))
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.workspacesvc.UpdateMemberRole(c.Request.Context(), userID, workspaceID, memberID, workspacedomain.Role(req.Role))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (s *Server) RemoveMember(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}
	memberID, ok := parseID(c.Param("memberId"))
	if !ok {
		AbortWithError(c, newValidationError("memberId", "invalid_id", "invalid member id"))
		return
	}

	if err := s.workspacesvc.RemoveMember(c.Request.Context(), userID, workspaceID, memberID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (s *Server) CreateWorkspaceInvitation(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}

	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invitation, err := s.workspacesvc.CreateInvitation(c.Request.Context(), userID, workspaceID, workspacedomain.CreateInvitationRequest{
		Email: req.Email,
		Role:  workspacedomain.Role(req.Role),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invitation)
}

func (s *Server) ListWorkspaceInvitations(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}

	invitations, err := s.workspacesvc.GetWorkspaceInvitations(c.Request.Context(), userID, workspaceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

func (s *Server) RevokeWorkspaceInvitation(c *gin.Context) {
	userID, _ := currentUserID(c)
	workspaceID, ok := parseID(c.Param("workspaceId"))
	if !ok {
		AbortWithError(c, newValidationError("workspaceId", "invalid_id", "invalid workspace id"))
		return
	}
	invitationID, ok := parseID(c.Param("invitationId"))
	if !ok {
		AbortWithError(c, newValidationError("invitationId", "invalid_id", "invalid invitation id"))
		return
	}

	invitation, err := s.workspacesvc.RevokeInvitation(c.Request.Context(), userID, workspaceID, invitationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, invitation)
}
