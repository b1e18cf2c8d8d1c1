package controllers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/models"
	"github.com/goodypm20014-source/hapche-social/services"
)

type StackController struct {
	Store    *services.Store
	Stacks   *services.StackService
	Notifier *services.Notifier
}

func NewStackController(store *services.Store, stacks *services.StackService, notifier *services.Notifier) *StackController {
	return &StackController{Store: store, Stacks: stacks, Notifier: notifier}
}

type stackInput struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Supplements []string               `json:"supplements" binding:"required,min=1"`
	Reminders   []models.StackReminder `json:"reminders"`
	IsPublic    bool                   `json:"is_public"`
}

func (s *StackController) Create(c *gin.Context) {
	var input stackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stack, err := s.Stacks.CreateStack(c.Request.Context(), services.StackInput{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Supplements: input.Supplements,
		Reminders:   input.Reminders,
		IsPublic:    input.IsPublic,
	})

	var rejected *services.ModerationRejectedError
	switch {
	case errors.Is(err, services.ErrTierInsufficient):
		c.JSON(http.StatusForbidden, gin.H{"error": "stacks require premium", "upgrade": "premium"})
		return
	case errors.As(err, &rejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "stack rejected by moderation",
			"reason": rejected.Reason,
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"stack": stack}
	if stack.Moderation != nil && stack.Moderation.Status == models.ModerationFlagged {
		resp["notice"] = "Вашият stack е отбелязан за проверка и ще бъде прегледан от модератор."
	}
	c.JSON(http.StatusCreated, resp)
}

// List returns the user's own stacks.
func (s *StackController) List(c *gin.Context) {
	if !services.CanAccessStacks(s.Store.EffectiveTier()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "stacks require premium", "upgrade": "premium"})
		return
	}
	userID := s.Store.User().ID
	var out []models.Stack
	for _, stack := range s.Store.Stacks() {
		if stack.CreatedBy == userID {
			out = append(out, stack)
		}
	}
	c.JSON(http.StatusOK, gin.H{"stacks": out})
}

// Feed returns visible public stacks sorted by like count.
func (s *StackController) Feed(c *gin.Context) {
	viewer := s.Store.User().ID
	stacks := s.Store.PublicStacks(viewer)
	sort.SliceStable(stacks, func(i, j int) bool {
		return len(stacks[i].Likes) > len(stacks[j].Likes)
	})
	for i := range stacks {
		stacks[i].Comments = services.VisibleComments(stacks[i], viewer)
	}
	c.JSON(http.StatusOK, gin.H{"stacks": stacks})
}

func (s *StackController) Get(c *gin.Context) {
	stack, ok := s.Store.StackByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "stack not found"})
		return
	}
	viewer := s.Store.User().ID
	if !stack.VisibleTo(viewer) {
		c.JSON(http.StatusNotFound, gin.H{"error": "stack not found"})
		return
	}
	stack.Comments = services.VisibleComments(stack, viewer)
	c.JSON(http.StatusOK, gin.H{"stack": stack})
}

func (s *StackController) Delete(c *gin.Context) {
	s.Store.RemoveStack(c.Param("id"), s.Store.User().ID)
	c.JSON(http.StatusOK, gin.H{"message": "stack removed"})
}

func (s *StackController) TogglePublic(c *gin.Context) {
	s.Store.ToggleStackPublic(c.Param("id"), s.Store.User().ID)
	stack, ok := s.Store.StackByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "stack not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_public": stack.IsPublic})
}

func (s *StackController) Like(c *gin.Context) {
	user := s.Store.User()
	s.Store.LikeStack(c.Param("id"), user.ID)
	if stack, ok := s.Store.StackByID(c.Param("id")); ok {
		s.Notifier.NotifyLike(stack, user.ID, user.Name)
		c.JSON(http.StatusOK, gin.H{"likes": len(stack.Likes)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": 0})
}

func (s *StackController) Unlike(c *gin.Context) {
	s.Store.UnlikeStack(c.Param("id"), s.Store.User().ID)
	stack, _ := s.Store.StackByID(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"likes": len(stack.Likes)})
}

func (s *StackController) Follow(c *gin.Context) {
	s.Store.FollowStack(c.Param("id"), s.Store.User().ID)
	stack, _ := s.Store.StackByID(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"followers": len(stack.Followers)})
}

func (s *StackController) Unfollow(c *gin.Context) {
	s.Store.UnfollowStack(c.Param("id"), s.Store.User().ID)
	stack, _ := s.Store.StackByID(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"followers": len(stack.Followers)})
}

type commentInput struct {
	Content string `json:"content" binding:"required"`
}

func (s *StackController) Comment(c *gin.Context) {
	var input commentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := s.Stacks.CommentOnStack(c.Request.Context(), c.Param("id"), input.Content)
	var rejected *services.ModerationRejectedError
	switch {
	case errors.As(err, &rejected):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "comment rejected by moderation",
			"reason": rejected.Reason,
		})
		return
	case err != nil:
		c.JSON(http.StatusNotFound, gin.H{"error": "stack not found"})
		return
	}

	if stack, ok := s.Store.StackByID(c.Param("id")); ok {
		s.Notifier.NotifyComment(stack, comment)
	}

	resp := gin.H{"comment": comment}
	if comment.Moderation != nil && comment.Moderation.Status == models.ModerationFlagged {
		resp["notice"] = "Вашият коментар е отбелязан за проверка и ще бъде прегледан от модератор."
	}
	c.JSON(http.StatusCreated, resp)
}

type remindersInput struct {
	Reminders []models.StackReminder `json:"reminders"`
}

func (s *StackController) UpdateReminders(c *gin.Context) {
	var input remindersInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Store.UpdateStackReminders(c.Param("id"), s.Store.User().ID, input.Reminders)
	c.JSON(http.StatusOK, gin.H{"message": "reminders updated"})
}
