package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
)

type MembershipController struct {
	membership service.MembershipService
	purchases  service.PurchaseService
}

func NewMembershipController(membership service.MembershipService, purchases service.PurchaseService) *MembershipController {
	return &MembershipController{membership: membership, purchases: purchases}
}

func (c *MembershipController) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/me/membership", c.GetMembership)
	api.GET("/me/purchases", c.ListPurchases)
	api.POST("/purchases", c.StartPurchase)
	api.POST("/purchases/:order_id/callback", c.PurchaseCallback)
}

// GetMembership godoc
// @Summary The caller's membership status
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MembershipStatusDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /me/membership [get]
func (c *MembershipController) GetMembership(ctx *gin.Context) {
	status, err := c.membership.Status(ctx.Request.Context(), middleware.Subject(ctx))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve membership")
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// ListPurchases godoc
// @Summary The caller's purchases, newest first
// @Tags Membership
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PurchaseDTO
// @Router /me/purchases [get]
func (c *MembershipController) ListPurchases(ctx *gin.Context) {
	purchases, err := c.purchases.List(ctx.Request.Context(), middleware.Subject(ctx))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve purchases")
		return
	}
	ctx.JSON(http.StatusOK, purchases)
}

// StartPurchase godoc
// @Summary Start a checkout for a membership plan
// @Description Creates a pending purchase and returns the hosted checkout page to open in a web view.
// @Tags Membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param purchase body dto.PurchaseRequest true "Plan to buy"
// @Success 201 {object} dto.PurchaseStartDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Guests cannot buy"
// @Failure 404 {object} dto.ErrorResponse "Plan not found"
// @Failure 503 {object} dto.ErrorResponse "Checkout unavailable"
// @Router /purchases [post]
func (c *MembershipController) StartPurchase(ctx *gin.Context) {
	var req dto.PurchaseRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	started, err := c.purchases.Start(ctx.Request.Context(), middleware.Subject(ctx), req.PlanID)
	if err != nil {
		controller.RespondError(ctx, err, "Could not start checkout")
		return
	}
	ctx.JSON(http.StatusCreated, started)
}

// PurchaseCallback godoc
// @Summary Relay the checkout page's result message
// @Description The body is the message the checkout page posted to the web view, as received.
// @Tags Membership
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order_id path string true "Purchase / order id"
// @Param message body object true "Checkout result message"
// @Success 200 {object} dto.PurchaseDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed message"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Purchase already settled"
// @Router /purchases/{order_id}/callback [post]
func (c *MembershipController) PurchaseCallback(ctx *gin.Context) {
	raw, err := ctx.GetRawData()
	if err != nil || len(raw) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body"})
		return
	}
	settled, err := c.purchases.HandleCallback(ctx.Request.Context(), middleware.Subject(ctx), ctx.Param("order_id"), raw)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to record payment result")
		return
	}
	ctx.JSON(http.StatusOK, settled)
}
