package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
)

type CatalogController struct {
	catalog service.CatalogService
}

func NewCatalogController(catalog service.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func (c *CatalogController) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/categories", c.ListCategories)
	api.GET("/categories/:category_id/tests", c.ListCategoryTests)
	api.GET("/tests/:test_id", c.GetTest)
	api.GET("/series", c.ListSeries)
	api.GET("/plans", c.ListPlans)
	api.GET("/banners", c.ListBanners)
}

// ListCategories godoc
// @Summary List exam categories
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Success 200 {array} dto.CategoryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /categories [get]
func (c *CatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.catalog.ListCategories(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve categories")
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// ListCategoryTests godoc
// @Summary List the tests of a category
// @Description Each test carries the caller's verdict (allowed, allowed_as_free_trial, denied) and attempts. An upsell plan is included when any test is denied.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Param category_id path int true "Category ID"
// @Success 200 {object} dto.TestListingDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid category_id format"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /categories/{category_id}/tests [get]
func (c *CatalogController) ListCategoryTests(ctx *gin.Context) {
	categoryID, ok := controller.ParseID(ctx, "category_id")
	if !ok {
		return
	}
	listing, err := c.catalog.ListCategoryTests(ctx.Request.Context(), middleware.Subject(ctx), categoryID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve tests")
		return
	}
	ctx.JSON(http.StatusOK, listing)
}

// GetTest godoc
// @Summary Get a test's details and the caller's verdict
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.TestDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid test_id format"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /tests/{test_id} [get]
func (c *CatalogController) GetTest(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	detail, err := c.catalog.GetTest(ctx.Request.Context(), middleware.Subject(ctx), testID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve test")
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// ListSeries godoc
// @Summary List premium test series across all categories
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Success 200 {object} dto.TestListingDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /series [get]
func (c *CatalogController) ListSeries(ctx *gin.Context) {
	listing, err := c.catalog.ListSeries(ctx.Request.Context(), middleware.Subject(ctx))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve test series")
		return
	}
	ctx.JSON(http.StatusOK, listing)
}

// ListPlans godoc
// @Summary List membership plans on sale
// @Tags Membership
// @Produce json
// @Success 200 {array} dto.PlanDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /plans [get]
func (c *CatalogController) ListPlans(ctx *gin.Context) {
	plans, err := c.catalog.ListPlans(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve plans")
		return
	}
	ctx.JSON(http.StatusOK, plans)
}

// ListBanners godoc
// @Summary List active home screen banners
// @Tags Catalog
// @Produce json
// @Success 200 {array} dto.BannerDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /banners [get]
func (c *CatalogController) ListBanners(ctx *gin.Context) {
	banners, err := c.catalog.ListBanners(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve banners")
		return
	}
	ctx.JSON(http.StatusOK, banners)
}
