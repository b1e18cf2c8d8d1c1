package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/models"
	"github.com/goodypm20014-source/hapche-social/services"
)

type MessageController struct {
	Store    *services.Store
	Notifier *services.Notifier
}

func NewMessageController(store *services.Store, notifier *services.Notifier) *MessageController {
	return &MessageController{Store: store, Notifier: notifier}
}

type messageInput struct {
	ToUserID   string                    `json:"to_user_id" binding:"required"`
	Content    string                    `json:"content"`
	Type       models.MessageType        `json:"type"`
	Attachment *models.MessageAttachment `json:"attachment"`
}

func (m *MessageController) Send(c *gin.Context) {
	var input messageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Type == "" {
		input.Type = models.MessagePlain
	}

	msg, err := m.Store.SendMessage(input.ToUserID, input.Content, input.Type, input.Attachment)
	if errors.Is(err, services.ErrTierInsufficient) {
		c.JSON(http.StatusForbidden, gin.H{"error": "messaging requires a registered account", "upgrade": "free"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if msg.Type != models.MessagePlain {
		m.Notifier.NotifyShare(msg)
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (m *MessageController) Conversations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"conversations": m.Store.Conversations()})
}

func (m *MessageController) Transcript(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": m.Store.Transcript(c.Param("userId"))})
}

func (m *MessageController) MarkRead(c *gin.Context) {
	m.Store.MarkMessageAsRead(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"unread": m.Store.UnreadMessageCount()})
}

func (m *MessageController) UnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unread": m.Store.UnreadMessageCount()})
}
