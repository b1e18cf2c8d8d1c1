package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/services"
)

type SocialController struct {
	Store    *services.Store
	Notifier *services.Notifier
}

func NewSocialController(store *services.Store, notifier *services.Notifier) *SocialController {
	return &SocialController{Store: store, Notifier: notifier}
}

type friendRequestInput struct {
	UserID string `json:"user_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
}

// SendFriendRequest creates a pending edge. A duplicate request for the
// same counterparty is reported but creates nothing.
func (s *SocialController) SendFriendRequest(c *gin.Context) {
	var input friendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	friend, created := s.Store.SendFriendRequest(input.UserID, input.Name)
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "request already exists"})
		return
	}
	s.Notifier.NotifyFriendRequest(friend)
	c.JSON(http.StatusCreated, gin.H{"friend": friend})
}

func (s *SocialController) AcceptFriendRequest(c *gin.Context) {
	s.Store.AcceptFriendRequest(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"friends": s.Store.Friends()})
}

func (s *SocialController) RemoveFriend(c *gin.Context) {
	s.Store.RemoveFriend(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"friends": s.Store.Friends()})
}

// ListFriends returns accepted friends; ?all=true includes pending.
func (s *SocialController) ListFriends(c *gin.Context) {
	if c.Query("all") == "true" {
		c.JSON(http.StatusOK, gin.H{"friends": s.Store.Friends()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": s.Store.AcceptedFriends()})
}

func (s *SocialController) FollowUser(c *gin.Context) {
	s.Store.FollowUser(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"following": s.Store.User().Following})
}

func (s *SocialController) UnfollowUser(c *gin.Context) {
	s.Store.UnfollowUser(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"following": s.Store.User().Following})
}
