package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goodypm20014-source/hapche-social/services"
)

type FavoritesController struct {
	Store *services.Store
}

func NewFavoritesController(store *services.Store) *FavoritesController {
	return &FavoritesController{Store: store}
}

type favoriteInput struct {
	Name string `json:"name" binding:"required"`
}

// Create saves an ingredient. Guests get the upsell response; the store
// itself would also silently refuse.
func (f *FavoritesController) Create(c *gin.Context) {
	if !services.CanAccessFavorites(f.Store.EffectiveTier()) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "favorites require a registered account",
			"upgrade": "free",
		})
		return
	}

	var input favoriteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f.Store.AddFavorite(input.Name)
	c.JSON(http.StatusCreated, gin.H{"favorites": f.Store.Favorites()})
}

func (f *FavoritesController) List(c *gin.Context) {
	if !services.CanAccessFavorites(f.Store.EffectiveTier()) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "favorites require a registered account",
			"upgrade": "free",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": f.Store.Favorites()})
}

func (f *FavoritesController) Delete(c *gin.Context) {
	f.Store.RemoveFavorite(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"favorites": f.Store.Favorites()})
}
