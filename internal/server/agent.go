package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	agentdomain "github.com/lumonlabs/severatee/internal/agent/domain"
)

type CreateAgentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateAgentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (s *Server) CreateAgent(c *gin.Context) {
	var req CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	agent, err := s.agentsvc.CreateAgent(c.Request.Context(), agentdomain.CreateAgentRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agent)
}

func (s *Server) ListAgents(c *gin.Context) {
	agents, err := s.agentsvc.ListAgents(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

func (s *Server) GetAgent(c *gin.Context) {
	agentID, ok := parseID(c.Param("agentId"))
	if !ok {
		AbortWithError(c, newValidationError("agentId", "invalid_id", "invalid agent id"))
		return
	}

	agent, err := s.agentsvc.GetAgent(c.Request.Context(), agentID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func (s *Server) UpdateAgent(c *gin.Context) {
	agentID, ok := parseID(c.Param("agentId"))
	if !ok {
		AbortWithError(c, newValidationError("agentId", "invalid_id", "invalid agent id"))
		return
	}

	var req UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	agent, err := s.agentsvc.UpdateAgent(c.Request.Context(), agentID, agentdomain.UpdateAgentRequest{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

func (s *Server) DeleteAgent(c *gin.Context) {
	agentID, ok := parseID(c.Param("agentId"))
	if !ok {
		AbortWithError(c, newValidationError("agentId", "invalid_id", "invalid agent id"))
		return
	}

	if err := s.agentsvc.DeleteAgent(c.Request.Context(), agentID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
