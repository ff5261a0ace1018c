package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
)

type GuestController struct {
	users service.UserService
}

func NewGuestController(users service.UserService) *GuestController {
	return &GuestController{users: users}
}

// RegisterRoutes mounts the routes that run without authentication.
func (c *GuestController) RegisterRoutes(public *gin.RouterGroup) {
	public.POST("/guests", c.CreateGuest)
}

// CreateGuest godoc
// @Summary Issue a guest id
// @Description Clients without an account store the returned id and send it as X-Guest-ID.
// @Tags Identity
// @Produce json
// @Success 201 {object} dto.GuestDTO
// @Router /guests [post]
func (c *GuestController) CreateGuest(ctx *gin.Context) {
	ctx.JSON(http.StatusCreated, dto.GuestDTO{GuestID: c.users.NewGuestID()})
}
