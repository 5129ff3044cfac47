package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	chatdomain "github.com/lumonlabs/severatee/internal/chat/domain"
)

type CreateChatRequest struct {
	Title string `json:"title"`
}

type SaveMessagesRequest struct {
	Messages []chatdomain.MessageInput `json:"messages"`
}

type UpdateChatStatusRequest struct {
	Status string `json:"status"`
}

type CompleteChatRequest struct {
	Message string `json:"message"`
}

func (s *Server) CreateChat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	chat, err := s.chatsvc.CreateChat(c.Request.Context(), int64(userID), req.Title)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (s *Server) ListChats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	chats, err := s.chatsvc.GetUserChats(c.Request.Context(), int64(userID))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (s *Server) GetChat(c *gin.Context) {
	userID, _ := currentUserID(c)
	chatID, ok := parseID(c.Param("chatId"))
	if !ok {
		AbortWithError(c, newValidationError("chatId", "invalid_id", "invalid chat id"))
		return
	}

	detail, err := s.chatsvc.GetChatByID(c.Request.Context(), int64(userID), chatID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) SaveChatMessages(c *gin.Context) {
	userID, _ := currentUserID(c)
	chatID, ok := parseID(c.Param("chatId"))
	if !ok {
		AbortWithError(c, newValidationError("chatId", "invalid_id", "invalid chat id"))
		return
	}

	var req SaveMessagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	messages, err := s.chatsvc.SaveMessages(c.Request.Context(), int64(userID), chatID, req.Messages)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (s *Server) UpdateChatStatus(c *gin.Context) {
	userID, _ := currentUserID(c)
	chatID, ok := parseID(c.Param("chatId"))
	if !ok {
		AbortWithError(c, newValidationError("chatId", "invalid_id", "invalid chat id"))
		return
	}

	var req UpdateChatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	chat, err := s.chatsvc.UpdateChatStatus(c.Request.Context(), int64(userID), chatID, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (s *Server) DeleteChat(c *gin.Context) {
	userID, _ := currentUserID(c)
	chatID, ok := parseID(c.Param("chatId"))
	if !ok {
		AbortWithError(c, newValidationError("chatId", "invalid_id", "invalid chat id"))
		return
	}

	if err := s.chatsvc.DeleteChat(c.Request.Context(), int64(userID), chatID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) CompleteChat(c *gin.Context) {
	userID, _ := currentUserID(c)
	chatID, ok := parseID(c.Param("chatId"))
	if !ok {
		AbortWithError(c, newValidationError("chatId", "invalid_id", "invalid chat id"))
		return
	}

	var req CompleteChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reply, err := s.chatsvc.Complete(c.Request.Context(), int64(userID), chatID, req.Message)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}
