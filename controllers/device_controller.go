package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/services"
)

type DeviceController struct {
	Store *services.Store
	Push  *services.PushService
}

func NewDeviceController(store *services.Store, push *services.PushService) *DeviceController {
	return &DeviceController{Store: store, Push: push}
}

type registerDeviceReq struct {
	Platform string `json:"platform" binding:"required"` // "android" | "ios"
	Token    string `json:"token" binding:"required"`
}

func (d *DeviceController) Register(c *gin.Context) {
	var req registerDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if d.Push == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push not configured"})
		return
	}

	dev, err := d.Push.RegisterDevice(d.Store.User().ID, req.Platform, req.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"device": dev})
}
