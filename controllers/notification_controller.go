package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/services"
)

type NotificationController struct {
	Store *services.Store
	Push  *services.PushService
}

func NewNotificationController(store *services.Store, push *services.PushService) *NotificationController {
	return &NotificationController{Store: store, Push: push}
}

func (n *NotificationController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": n.Store.Notifications(),
		"unread":        n.Store.UnreadNotificationCount(),
	})
}

func (n *NotificationController) MarkRead(c *gin.Context) {
	n.Store.MarkNotificationAsRead(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"unread": n.Store.UnreadNotificationCount()})
}

func (n *NotificationController) UnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unread": n.Store.UnreadNotificationCount()})
}

type toggleReq struct {
	Enabled bool `json:"enabled"`
}

// Toggle enables or disables push delivery for all of the profile's
// devices.
func (n *NotificationController) Toggle(c *gin.Context) {
	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if n.Push == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push not configured"})
		return
	}
	if err := n.Push.ToggleDevices(n.Store.User().ID, req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": req.Enabled,
	})
}
