package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sandevgo/skyline/internal/core"
	"github.com/sandevgo/skyline/internal/service/chat"
	"github.com/sandevgo/skyline/pkg/conv"
)

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type chatResponse struct {
	Reply           string                `json:"reply"`
	ReplyHTML       string                `json:"reply_html"`
	ConversationID  string                `json:"conversation_id"`
	ExternalContext *core.ExternalContext `json:"external_context,omitempty"`
	Debug           chat.Debug            `json:"debug"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}

	res, err := s.orchestrator.Turn(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process the message"})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Reply:           res.Reply,
		ReplyHTML:       conv.MarkdownToHTML([]byte(res.Reply)),
		ConversationID:  res.ConversationID,
		ExternalContext: res.External,
		Debug:           res.Debug,
	})
}

type statsResponse struct {
	ConversationID string `json:"conversation_id"`
	MessageCount   int    `json:"message_count"`
	LocationCount  int    `json:"location_count"`
	HasPreferences bool   `json:"has_preferences"`
	PlanCount      int    `json:"plan_count"`
}

func (s *Server) handleStats(c *gin.Context) {
	id := c.Param("id")
	conversation, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown conversation"})
		return
	}
	c.JSON(http.StatusOK, statsResponse{
		ConversationID: conversation.ID,
		MessageCount:   len(conversation.Messages),
		LocationCount:  len(conversation.Locations),
		HasPreferences: !conversation.Preferences.IsEmpty(),
		PlanCount:      len(conversation.Plans),
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": core.SkylineVersion,
	})
}
