package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
)

type PersonalizationController struct {
	personal service.PersonalizationService
}

func NewPersonalizationController(personal service.PersonalizationService) *PersonalizationController {
	return &PersonalizationController{personal: personal}
}

func (c *PersonalizationController) RegisterRoutes(api *gin.RouterGroup) {
	me := api.Group("/me")
	me.GET("/favorites", c.ListFavorites)
	me.POST("/favorites/:test_id", c.AddFavorite)
	me.DELETE("/favorites/:test_id", c.RemoveFavorite)
	me.GET("/theme", c.GetTheme)
	me.PUT("/theme", c.SetTheme)
	me.GET("/notifications", c.ListNotifications)
}

// ListFavorites godoc
// @Summary The caller's favorite tests
// @Tags Personalization
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Success 200 {object} dto.FavoritesDTO
// @Router /me/favorites [get]
func (c *PersonalizationController) ListFavorites(ctx *gin.Context) {
	ids, err := c.personal.FavoriteIDs(ctx.Request.Context(), middleware.Subject(ctx))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve favorites")
		return
	}
	ctx.JSON(http.StatusOK, dto.FavoritesDTO{TestIDs: ids})
}

// AddFavorite godoc
// @Summary Mark a test as favorite
// @Tags Personalization
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.FavoritesDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /me/favorites/{test_id} [post]
func (c *PersonalizationController) AddFavorite(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	favs, err := c.personal.AddFavorite(ctx.Request.Context(), middleware.Subject(ctx), testID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update favorites")
		return
	}
	ctx.JSON(http.StatusOK, favs)
}

// RemoveFavorite godoc
// @Summary Unmark a favorite test
// @Tags Personalization
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.FavoritesDTO
// @Router /me/favorites/{test_id} [delete]
func (c *PersonalizationController) RemoveFavorite(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	favs, err := c.personal.RemoveFavorite(ctx.Request.Context(), middleware.Subject(ctx), testID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update favorites")
		return
	}
	ctx.JSON(http.StatusOK, favs)
}

// GetTheme godoc
// @Summary The caller's theme preference
// @Tags Personalization
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Success 200 {object} dto.ThemeDTO
// @Router /me/theme [get]
func (c *PersonalizationController) GetTheme(ctx *gin.Context) {
	theme, err := c.personal.Theme(ctx.Request.Context(), middleware.Subject(ctx))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to read theme")
		return
	}
	ctx.JSON(http.StatusOK, theme)
}

// SetTheme godoc
// @Summary Store the caller's theme preference
// @Tags Personalization
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Param theme body dto.ThemeDTO true "light, dark or system"
// @Success 200 {object} dto.ThemeDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /me/theme [put]
func (c *PersonalizationController) SetTheme(ctx *gin.Context) {
	var req dto.ThemeDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	theme, err := c.personal.SetTheme(ctx.Request.Context(), middleware.Subject(ctx), req.Theme)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to save theme")
		return
	}
	ctx.JSON(http.StatusOK, theme)
}

// ListNotifications godoc
// @Summary The caller's notifications, newest first
// @Tags Personalization
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Success 200 {array} dto.NotificationDTO
// @Router /me/notifications [get]
func (c *PersonalizationController) ListNotifications(ctx *gin.Context) {
	notes, err := c.personal.Notifications(ctx.Request.Context(), middleware.Subject(ctx))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve notifications")
		return
	}
	ctx.JSON(http.StatusOK, notes)
}
