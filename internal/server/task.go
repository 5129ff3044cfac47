package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	taskdomain "github.com/lumonlabs/severatee/internal/task/domain"
	"github.com/lumonlabs/severatee/pkg/db/pagination"
)

type CreateTaskRequest struct {
	Name         string     `json:"name"`
	Instructions string     `json:"instructions"`
	AgentID      *string    `json:"agent_id"`
	DueDate      *time.Time `json:"due_date"`
}

type UpdateTaskStatusRequest struct {
	Status   string `json:"status"`
	Progress *int   `json:"progress"`
}

type SubmitTaskAnswerRequest struct {
	Answer    string `json:"answer"`
	Signature string `json:"signature"`
}

func (s *Server) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	domainReq := taskdomain.CreateTaskRequest{
		Name:         req.Name,
		Instructions: req.Instructions,
		DueDate:      req.DueDate,
	}
	if req.AgentID != nil {
		agentID, ok := parseID(*req.AgentID)
		if !ok {
			AbortWithError(c, newValidationError("agent_id", "invalid_id", "invalid agent id"))
			return
		}
		domainReq.AgentID = &agentID
	}

	task, err := s.tasksvc.CreateTask(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) ListTasks(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	query := taskdomain.ListTasksQuery{
		Status: c.Query("status"),
		Page:   page,
	}
	if raw := c.Query("agent_id"); raw != "" {
		agentID, ok := parseID(raw)
		if !ok {
			AbortWithError(c, newValidationError("agent_id", "invalid_id", "invalid agent id"))
			return
		}
		query.AgentID = &agentID
	}

	result, err := s.tasksvc.ListTasks(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": result.Tasks, "page_info": result.PageInfo})
}

func (s *Server) GetTask(c *gin.Context) {
	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		AbortWithError(c, newValidationError("taskId", "invalid_id", "invalid task id"))
		return
	}

	task, err := s.tasksvc.GetTask(c.Request.Context(), taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) UpdateTaskStatus(c *gin.Context) {
	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		AbortWithError(c, newValidationError("taskId", "invalid_id", "invalid task id"))
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	task, err := s.tasksvc.UpdateStatus(c.Request.Context(), taskID, req.Status, req.Progress)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) SubmitTaskAnswer(c *gin.Context) {
	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		AbortWithError(c, newValidationError("taskId", "invalid_id", "invalid task id"))
		return
	}

	var req SubmitTaskAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	task, err := s.tasksvc.SubmitAnswer(c.Request.Context(), taskID, taskdomain.SubmitAnswerRequest{
		Answer:    req.Answer,
		Signature: req.Signature,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) GetTaskSubmission(c *gin.Context) {
	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		AbortWithError(c, newValidationError("taskId", "invalid_id", "invalid task id"))
		return
	}

	submission, err := s.tasksvc.GetSubmission(c.Request.Context(), taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (s *Server) PerformTaskWork(c *gin.Context) {
	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		AbortWithError(c, newValidationError("taskId", "invalid_id", "invalid task id"))
		return
	}

	task, err := s.tasksvc.PerformWork(c.Request.Context(), taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) DeleteTask(c *gin.Context) {
	taskID, ok := parseID(c.Param("taskId"))
	if !ok {
		AbortWithError(c, newValidationError("taskId", "invalid_id", "invalid task id"))
		return
	}

	if err := s.tasksvc.DeleteTask(c.Request.Context(), taskID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
