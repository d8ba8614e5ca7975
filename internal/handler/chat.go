package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"aihub-backend/internal/model"
	"aihub-backend/internal/service"
	"aihub-backend/internal/storage"
	"aihub-backend/internal/utils"
	"aihub-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// SendMessage appends the user message and streams the exchange over SSE:
// an ack for the user message, then the assistant reply once the responder
// resolves. If the client disconnects mid-stream the reply is still
// appended to the originating session.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Reject unknown sessions before committing to a stream.
	if _, err := h.chatService.GetSession(req.SessionID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	sseWriter := utils.NewSSEWriter(c.Writer)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	respChan, errChan := h.chatService.SendMessage(req.SessionID, req.Message)

	sseWriter.WriteJSON("status", gin.H{
		"type":      "processing_start",
		"timestamp": time.Now().Unix(),
	})

	for {
		select {
		case event, ok := <-respChan:
			if !ok {
				sseWriter.WriteJSON("status", gin.H{
					"type":      "processing_complete",
					"timestamp": time.Now().Unix(),
				})
				sseWriter.Close()
				return
			}

			if err := sseWriter.WriteJSON("message", event); err != nil {
				logger.WithField("session_id", req.SessionID).Errorf("Failed to write SSE: %v", err)
				return
			}

		case err := <-errChan:
			if err != nil {
				sseWriter.WriteJSON("error", gin.H{
					"error":     err.Error(),
					"timestamp": time.Now().Unix(),
				})
				sseWriter.Close()
				return
			}

		case <-ctx.Done():
			sseWriter.Close()
			return
		}
	}
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	// An empty body is fine; the session starts with the placeholder title.
	if err := c.ShouldBindJSON(&req); err != nil {
		req.FirstMessage = ""
	}

	session, err := h.chatService.CreateSession(req.FirstMessage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	session, err := h.chatService.GetSession(sessionID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.SessionResponse{
		SessionID:    session.ID,
		Title:        session.Title,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
		MessageCount: len(session.Messages),
	})
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	sessionID := c.Param("session_id")

	messages, err := h.chatService.GetSessionMessages(sessionID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"messages":   messages,
	})
}

func (h *ChatHandler) GetSessionList(c *gin.Context) {
	sessions, err := h.chatService.GetAllSessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
	})
}

// SelectSession sets the current session. The call is lenient by contract:
// selecting an unknown id succeeds and GetCurrentSession later reports an
// empty state.
func (h *ChatHandler) SelectSession(c *gin.Context) {
	sessionID := c.Param("session_id")

	h.chatService.SelectSession(sessionID)

	c.JSON(http.StatusOK, gin.H{"message": "Session selected"})
}

func (h *ChatHandler) GetCurrentSession(c *gin.Context) {
	session, ok := h.chatService.CurrentSession()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"session": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	groups, err := h.chatService.History(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": groups,
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrEmptyContent), errors.Is(err, storage.ErrInvalidAuthor):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
