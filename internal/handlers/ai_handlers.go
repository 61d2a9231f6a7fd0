package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatInput defines the structure of the JSON request body.
type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

// ChatAI handles the interaction with the AI Assistant.
func (h *Handlers) ChatAI(c *gin.Context) {
	if h.AIService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not configured"})
		return
	}

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)

	response, tokens, err := h.AIService.GenerateResponse(
		c.Request.Context(), input.Message, h.Cfg.AI.GeminiModel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI Service unavailable: " + err.Error()})
		return
	}

	// Record the interaction. A history write failure must not lose the
	// answer the user already has.
	_, dbErr := h.DB.Exec(
		`INSERT INTO ai_chat_history (id, user_id, user_message, ai_response, tokens_used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), userID, input.Message, response, tokens, time.Now().UTC())
	if dbErr != nil {
		h.Log.Warn("failed to save chat history", zap.Error(dbErr))
	}

	c.JSON(http.StatusOK, gin.H{
		"response":   response,
		"tokensUsed": tokens,
	})
}
