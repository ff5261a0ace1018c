package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
)

type AdminContentController struct {
	content service.AdminContentService
}

func NewAdminContentController(content service.AdminContentService) *AdminContentController {
	return &AdminContentController{content: content}
}

func (c *AdminContentController) RegisterRoutes(admin *gin.RouterGroup) {
	banners := admin.Group("/banners")
	banners.GET("", c.ListBanners)
	banners.POST("", c.CreateBanner)
	banners.PUT("/:banner_id", c.UpdateBanner)
	banners.DELETE("/:banner_id", c.DeleteBanner)

	admin.POST("/notifications", c.CreateNotification)
}

// ListBanners godoc
// @Summary (Admin) List all banners
// @Tags Admin - Content
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.BannerDTO
// @Router /admin/banners [get]
func (c *AdminContentController) ListBanners(ctx *gin.Context) {
	banners, err := c.content.ListBanners(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve banners")
		return
	}
	ctx.JSON(http.StatusOK, banners)
}

// CreateBanner godoc
// @Summary (Admin) Create a banner
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param banner body dto.BannerUpsertDTO true "Banner"
// @Success 201 {object} dto.BannerDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/banners [post]
func (c *AdminContentController) CreateBanner(ctx *gin.Context) {
	var req dto.BannerUpsertDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	banner, err := c.content.CreateBanner(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create banner")
		return
	}
	ctx.JSON(http.StatusCreated, banner)
}

// UpdateBanner godoc
// @Summary (Admin) Update a banner
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param banner_id path int true "Banner ID"
// @Param banner body dto.BannerUpsertDTO true "Banner"
// @Success 200 {object} dto.BannerDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/banners/{banner_id} [put]
func (c *AdminContentController) UpdateBanner(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "banner_id")
	if !ok {
		return
	}
	var req dto.BannerUpsertDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	banner, err := c.content.UpdateBanner(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update banner")
		return
	}
	ctx.JSON(http.StatusOK, banner)
}

// DeleteBanner godoc
// @Summary (Admin) Delete a banner
// @Tags Admin - Content
// @Security BearerAuth
// @Param banner_id path int true "Banner ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/banners/{banner_id} [delete]
func (c *AdminContentController) DeleteBanner(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "banner_id")
	if !ok {
		return
	}
	if err := c.content.DeleteBanner(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete banner")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateNotification godoc
// @Summary (Admin) Send a notification
// @Description Leave user_id empty to broadcast to everyone.
// @Tags Admin - Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param notification body dto.NotificationCreateDTO true "Notification"
// @Success 201 {object} dto.NotificationDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Target user not found"
// @Router /admin/notifications [post]
func (c *AdminContentController) CreateNotification(ctx *gin.Context) {
	var req dto.NotificationCreateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	n, err := c.content.CreateNotification(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to send notification")
		return
	}
	ctx.JSON(http.StatusCreated, n)
}
