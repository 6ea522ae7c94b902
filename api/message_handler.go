package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sup-api/auth"
	"sup-api/errors"
	"sup-api/services"
	"sup-api/validation"
)

const defaultSearchLimit = 20

type MessageHandler struct {
	messages services.IMessageService
	log      *slog.Logger
}

func NewMessageHandler(messages services.IMessageService, log *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, log: log}
}

var sendFields = []validation.Field{
	{Name: "text", Required: true, Kind: validation.String},
	{Name: "to", Required: true, Kind: validation.String},
	{Name: "from", Required: true, Kind: validation.String},
}

// List handles GET /messages: the caller's messages, optionally narrowed by
// from/to user ids.
func (h *MessageHandler) List(c *gin.Context) {
	expanded, err := h.messages.ListFor(auth.CallerID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toMessageViews(expanded))
}

// Create handles POST /messages.
func (h *MessageHandler) Create(c *gin.Context) {
	payload := bindPayload(c)
	if err := validation.Check(payload, sendFields); err != nil {
		respondError(c, h.log, err)
		return
	}

	id, err := h.messages.Send(
		validation.Text(payload, "text"),
		validation.Text(payload, "from"),
		validation.Text(payload, "to"),
	)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/messages/%s", id))
	c.JSON(http.StatusCreated, gin.H{})
}

// Get handles GET /messages/:messageID. Readable only by sender or recipient.
func (h *MessageHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("messageID"))
	if err != nil {
		// A malformed id cannot name any stored message.
		respondError(c, h.log, errors.ErrMessageNotFound)
		return
	}

	expanded, err := h.messages.Get(auth.CallerID(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toMessageView(expanded))
}

// Search handles GET /search?q=terms over the caller's own messages.
func (h *MessageHandler) Search(c *gin.Context) {
	terms := c.Query("q")
	if terms == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing query parameter: q"})
		return
	}

	results, err := h.messages.Search(c.Request.Context(), auth.CallerID(c), terms, defaultSearchLimit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toMessageViews(results))
}
