package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
)

type AdminUserController struct {
	users service.AdminUserService
}

func NewAdminUserController(users service.AdminUserService) *AdminUserController {
	return &AdminUserController{users: users}
}

func (c *AdminUserController) RegisterRoutes(admin *gin.RouterGroup) {
	users := admin.Group("/users")
	users.GET("", c.ListUsers)
	users.GET("/:user_id", c.GetUser)
	users.PATCH("/:user_id", c.UpdateUser)
	users.POST("/:user_id/membership", c.GrantMembership)
}

// ListUsers godoc
// @Summary (Admin) Search users
// @Tags Admin - Users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Matches id, name or email"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.PageDTO[dto.AdminUserDTO]
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/users [get]
func (c *AdminUserController) ListUsers(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit"})
		return
	}
	offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid offset"})
		return
	}
	page, err := c.users.ListUsers(ctx.Request.Context(), ctx.Query("q"), limit, offset)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve users")
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// GetUser godoc
// @Summary (Admin) Get a user with membership status
// @Tags Admin - Users
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Success 200 {object} dto.AdminUserDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/users/{user_id} [get]
func (c *AdminUserController) GetUser(ctx *gin.Context) {
	user, err := c.users.GetUser(ctx.Request.Context(), ctx.Param("user_id"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve user")
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary (Admin) Change a user's name, role or blocked flag
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Param user body dto.UserUpdateDTO true "Fields to change"
// @Success 200 {object} dto.AdminUserDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/users/{user_id} [patch]
func (c *AdminUserController) UpdateUser(ctx *gin.Context) {
	var req dto.UserUpdateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	user, err := c.users.UpdateUser(ctx.Request.Context(), ctx.Param("user_id"), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update user")
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// GrantMembership godoc
// @Summary (Admin) Grant a membership without payment
// @Tags Admin - Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path string true "User ID"
// @Param grant body dto.GrantMembershipDTO true "Plan and optional duration override"
// @Success 200 {object} dto.AdminUserDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/users/{user_id}/membership [post]
func (c *AdminUserController) GrantMembership(ctx *gin.Context) {
	var req dto.GrantMembershipDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	user, err := c.users.GrantMembership(ctx.Request.Context(), ctx.Param("user_id"), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to grant membership")
		return
	}
	ctx.JSON(http.StatusOK, user)
}
