package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/models"
	"github.com/goodypm20014-source/hapche-social/services"
)

// DevController hosts the dev menu: tier override and push testing.
// Mount only outside production.
type DevController struct {
	Store *services.Store
	Push  *services.PushService
}

func NewDevController(store *services.Store, push *services.PushService) *DevController {
	return &DevController{Store: store, Push: push}
}

type tierReq struct {
	Tier models.UserTier `json:"tier" binding:"required"`
}

// SetTier overrides the profile tier directly. The only downgrade path
// in the system.
func (d *DevController) SetTier(c *gin.Context) {
	var req tierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch req.Tier {
	case models.TierGuest, models.TierFree, models.TierPremium:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tier"})
		return
	}

	d.Store.SetTier(req.Tier)
	c.JSON(http.StatusOK, gin.H{"profile": d.Store.User()})
}

type pushReq struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

func (d *DevController) PushTest(c *gin.Context) {
	var req pushReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == "" {
		req.Title = "Test alert 🔔"
	}
	if req.Body == "" {
		req.Body = "This is only a test."
	}
	if req.Data == nil {
		req.Data = map[string]string{"type": "test"}
	}

	if d.Push == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push not configured"})
		return
	}
	d.Push.PushToUser(d.Store.User().ID, req.Title, req.Body, req.Data)
	c.JSON(http.StatusOK, gin.H{"message": "push sent"})
}
