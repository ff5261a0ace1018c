package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
)

type AdminCatalogController struct {
	catalog service.AdminCatalogService
}

func NewAdminCatalogController(catalog service.AdminCatalogService) *AdminCatalogController {
	return &AdminCatalogController{catalog: catalog}
}

func (c *AdminCatalogController) RegisterRoutes(admin *gin.RouterGroup) {
	categories := admin.Group("/categories")
	categories.GET("", c.ListCategories)
	categories.POST("", c.CreateCategory)
	categories.PUT("/:category_id", c.UpdateCategory)
	categories.DELETE("/:category_id", c.DeleteCategory)
	categories.GET("/:category_id/tests", c.ListTests)

	tests := admin.Group("/tests")
	tests.POST("", c.CreateTest)
	tests.GET("/:test_id", c.GetTest)
	tests.PUT("/:test_id", c.UpdateTest)
	tests.DELETE("/:test_id", c.DeleteTest)
	tests.POST("/:test_id/questions", c.AddQuestion)

	questions := admin.Group("/questions")
	questions.PUT("/:question_id", c.UpdateQuestion)
	questions.DELETE("/:question_id", c.DeleteQuestion)
	questions.POST("/:question_id/explanation", c.DraftExplanation)

	plans := admin.Group("/plans")
	plans.GET("", c.ListPlans)
	plans.POST("", c.CreatePlan)
	plans.PUT("/:plan_id", c.UpdatePlan)
	plans.DELETE("/:plan_id", c.DeletePlan)
}

// ListCategories godoc
// @Summary (Admin) List categories
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Category
// @Router /admin/categories [get]
func (c *AdminCatalogController) ListCategories(ctx *gin.Context) {
	categories, err := c.catalog.ListCategories(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve categories")
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary (Admin) Create a category
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body dto.CategoryUpsertDTO true "Category"
// @Success 201 {object} model.Category
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/categories [post]
func (c *AdminCatalogController) CreateCategory(ctx *gin.Context) {
	var req dto.CategoryUpsertDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	category, err := c.catalog.CreateCategory(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create category")
		return
	}
	ctx.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary (Admin) Update a category
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category_id path int true "Category ID"
// @Param category body dto.CategoryUpsertDTO true "Category"
// @Success 200 {object} model.Category
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/categories/{category_id} [put]
func (c *AdminCatalogController) UpdateCategory(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "category_id")
	if !ok {
		return
	}
	var req dto.CategoryUpsertDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	category, err := c.catalog.UpdateCategory(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update category")
		return
	}
	ctx.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary (Admin) Delete an empty category
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param category_id path int true "Category ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Category still has tests"
// @Router /admin/categories/{category_id} [delete]
func (c *AdminCatalogController) DeleteCategory(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "category_id")
	if !ok {
		return
	}
	if err := c.catalog.DeleteCategory(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete category")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListTests godoc
// @Summary (Admin) List a category's tests
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Param category_id path int true "Category ID"
// @Success 200 {array} dto.AdminTestDTO
// @Router /admin/categories/{category_id}/tests [get]
func (c *AdminCatalogController) ListTests(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "category_id")
	if !ok {
		return
	}
	tests, err := c.catalog.ListTests(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve tests")
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// CreateTest godoc
// @Summary (Admin) Create a test, optionally with its questions
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test body dto.TestCreateDTO true "Test with questions"
// @Success 201 {object} dto.AdminTestDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /admin/tests [post]
func (c *AdminCatalogController) CreateTest(ctx *gin.Context) {
	var req dto.TestCreateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	created, err := c.catalog.CreateTest(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create test")
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// GetTest godoc
// @Summary (Admin) Get a test with answers
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.AdminTestDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id} [get]
func (c *AdminCatalogController) GetTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	test, err := c.catalog.GetTest(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve test")
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// UpdateTest godoc
// @Summary (Admin) Update test metadata
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param test body dto.TestUpdateDTO true "Fields to change"
// @Success 200 {object} dto.AdminTestDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id} [put]
func (c *AdminCatalogController) UpdateTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.TestUpdateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	test, err := c.catalog.UpdateTest(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update test")
		return
	}
	ctx.JSON(http.StatusOK, test)
}

// DeleteTest godoc
// @Summary (Admin) Delete a test and its questions
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id} [delete]
func (c *AdminCatalogController) DeleteTest(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	if err := c.catalog.DeleteTest(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete test")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary (Admin) Add a question to a test
// @Description correct_answer may be a number or a numeric string and must index into options.
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param test_id path int true "Test ID"
// @Param question body dto.QuestionCreateDTO true "Question"
// @Success 201 {object} dto.AdminQuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tests/{test_id}/questions [post]
func (c *AdminCatalogController) AddQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	question, err := c.catalog.AddQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to add question")
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary (Admin) Replace a question
// @Tags Admin - Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionCreateDTO true "Question"
// @Success 200 {object} dto.AdminQuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [put]
func (c *AdminCatalogController) UpdateQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	question, err := c.catalog.UpdateQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update question")
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin - Catalog
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [delete]
func (c *AdminCatalogController) DeleteQuestion(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.catalog.DeleteQuestion(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete question")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DraftExplanation godoc
// @Summary (Admin) Draft and store a question's explanation with Gemini
// @Tags Admin - Catalog
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.ExplanationDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Gemini not configured or unavailable"
// @Router /admin/questions/{question_id}/explanation [post]
func (c *AdminCatalogController) DraftExplanation(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "question_id")
	if !ok {
		return
	}
	out, err := c.catalog.DraftExplanation(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err, "Explanation drafting is unavailable")
		return
	}
	ctx.JSON(http.StatusOK, out)
}

// ListPlans godoc
// @Summary (Admin) List all plans, including inactive ones
// @Tags Admin - Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PlanDTO
// @Router /admin/plans [get]
func (c *AdminCatalogController) ListPlans(ctx *gin.Context) {
	plans, err := c.catalog.ListPlans(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve plans")
		return
	}
	ctx.JSON(http.StatusOK, plans)
}

// CreatePlan godoc
// @Summary (Admin) Create a plan
// @Tags Admin - Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body dto.PlanUpsertDTO true "Plan"
// @Success 201 {object} dto.PlanDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/plans [post]
func (c *AdminCatalogController) CreatePlan(ctx *gin.Context) {
	var req dto.PlanUpsertDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	plan, err := c.catalog.CreatePlan(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to create plan")
		return
	}
	ctx.JSON(http.StatusCreated, plan)
}

// UpdatePlan godoc
// @Summary (Admin) Update a plan
// @Tags Admin - Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan_id path int true "Plan ID"
// @Param plan body dto.PlanUpsertDTO true "Plan"
// @Success 200 {object} dto.PlanDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/plans/{plan_id} [put]
func (c *AdminCatalogController) UpdatePlan(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "plan_id")
	if !ok {
		return
	}
	var req dto.PlanUpsertDTO
	if !controller.BindJSON(ctx, &req) {
		return
	}
	plan, err := c.catalog.UpdatePlan(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update plan")
		return
	}
	ctx.JSON(http.StatusOK, plan)
}

// DeletePlan godoc
// @Summary (Admin) Delete a plan
// @Tags Admin - Plans
// @Security BearerAuth
// @Param plan_id path int true "Plan ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/plans/{plan_id} [delete]
func (c *AdminCatalogController) DeletePlan(ctx *gin.Context) {
	id, ok := controller.ParseID(ctx, "plan_id")
	if !ok {
		return
	}
	if err := c.catalog.DeletePlan(ctx.Request.Context(), id); err != nil {
		controller.RespondError(ctx, err, "Failed to delete plan")
		return
	}
	ctx.Status(http.StatusNoContent)
}
