package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/models"
	"github.com/goodypm20014-source/hapche-social/services"
	"github.com/goodypm20014-source/hapche-social/utils"
)

type ProfileController struct {
	Store     *services.Store
	Moderator *services.ModerationService
}

func NewProfileController(store *services.Store, moderator *services.ModerationService) *ProfileController {
	return &ProfileController{Store: store, Moderator: moderator}
}

func (p *ProfileController) GetProfile(c *gin.Context) {
	user := p.Store.User()
	c.JSON(http.StatusOK, gin.H{
		"profile":        user,
		"effective_tier": p.Store.EffectiveTier(),
	})
}

// Capabilities returns the gate table for the effective tier; clients
// call this on every screen render.
func (p *ProfileController) Capabilities(c *gin.Context) {
	c.JSON(http.StatusOK, services.CapabilitiesFor(p.Store.EffectiveTier()))
}

type ProfileInput struct {
	Name           string `json:"name"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"` // data URI
}

// UpdateProfile applies a profile edit. A changed bio goes through
// moderation first: rejected aborts the whole edit, flagged commits
// with the verdict attached.
func (p *ProfileController) UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	var up services.ProfileUpdate
	if input.Name != "" {
		up.Name = &input.Name
	}

	user := p.Store.User()
	bio := strings.TrimSpace(input.Bio)
	if bio != "" && bio != user.Bio {
		verdict := p.Moderator.Moderate(c.Request.Context(), bio)
		if verdict.Status == models.ModerationRejected {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "bio rejected by moderation",
				"reason": verdict.Reason,
			})
			return
		}
		up.Bio = &bio
		up.BioModeration = &verdict
	}

	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64Image(c.Request.Context(), input.ProfilePicture, user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload image"})
			return
		}
		up.ProfilePhotoURI = &url
	}

	p.Store.UpdateProfile(up)
	c.JSON(http.StatusOK, gin.H{"profile": p.Store.User()})
}

func (p *ProfileController) CompleteOnboarding(c *gin.Context) {
	p.Store.CompleteOnboarding()
	c.JSON(http.StatusOK, gin.H{"message": "onboarding completed"})
}

// Subscribe activates the premium tier. Payment processing happens
// upstream; this endpoint records the result.
func (p *ProfileController) Subscribe(c *gin.Context) {
	p.Store.SubscribeToPremium()
	c.JSON(http.StatusOK, gin.H{"profile": p.Store.User()})
}

type ProfileCardInput struct {
	Interests     *[]string             `json:"interests"`
	IsPublic      *bool                 `json:"is_public"`
	ShareableInfo *models.ShareableInfo `json:"shareable_info"`
}

func (p *ProfileController) UpdateProfileCard(c *gin.Context) {
	var input ProfileCardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p.Store.UpdateProfileCard(services.ProfileCardUpdate{
		Interests:     input.Interests,
		IsPublic:      input.IsPublic,
		ShareableInfo: input.ShareableInfo,
	})
	c.JSON(http.StatusOK, gin.H{"profile_card": p.Store.User().ProfileCard})
}
