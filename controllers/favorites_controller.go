package controllers

import (
	"net/http"

	"cart-bff/database"
	"cart-bff/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FavoritesController manages a user's favorite vendors.
type FavoritesController struct {
	repo   *database.FavoritesRepository
	logger *zap.Logger
}

// NewFavoritesController creates a new FavoritesController.
func NewFavoritesController(repo *database.FavoritesRepository, logger *zap.Logger) *FavoritesController {
	return &FavoritesController{repo: repo, logger: logger}
}

// List handles GET /favorites
func (fc *FavoritesController) List(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)

	vendors, err := fc.repo.List(ctx.Request.Context(), userID)
	if err != nil {
		fc.logger.Error("failed to list favorites", zap.String("user_id", userID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load favorites"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"favorites": vendors})
}

// Add handles PUT /favorites/:vendor_id
func (fc *FavoritesController) Add(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	vendorID := ctx.Param("vendor_id")

	if err := fc.repo.Add(ctx.Request.Context(), userID, vendorID); err != nil {
		fc.logger.Error("failed to add favorite", zap.String("user_id", userID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save favorite"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Added to favorites"})
}

// Remove handles DELETE /favorites/:vendor_id
func (fc *FavoritesController) Remove(ctx *gin.Context) {
	userID := ctx.GetString(middleware.ContextUserID)
	vendorID := ctx.Param("vendor_id")

	if err := fc.repo.Remove(ctx.Request.Context(), userID, vendorID); err != nil {
		fc.logger.Error("failed to remove favorite", zap.String("user_id", userID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}
