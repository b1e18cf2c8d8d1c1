package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/services"
	"github.com/goodypm20014-source/hapche-social/utils"
)

type AuthController struct {
	Store *services.Store
}

func NewAuthController(store *services.Store) *AuthController {
	return &AuthController{Store: store}
}

// Session issues a device-session token for the local profile. There is
// exactly one profile per installation; the token just names it.
func (a *AuthController) Session(c *gin.Context) {
	user := a.Store.User()
	token, err := utils.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "profile": user})
}

type RegisterInput struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
}

// Register upgrades the guest profile to the free tier.
func (a *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.Store.RegisterUser(input.Email, input.Name)

	token, err := utils.GenerateJWT(a.Store.User().ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "registration successful",
		"token":   token,
		"profile": a.Store.User(),
	})
}
