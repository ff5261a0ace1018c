package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
)

type SessionController struct {
	sessions service.SessionService
}

func NewSessionController(sessions service.SessionService) *SessionController {
	return &SessionController{sessions: sessions}
}

func (c *SessionController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/tests/:test_id/sessions", c.StartSession)
	api.POST("/tests/:test_id/submissions", c.SubmitAnswers)
	api.GET("/tests/:test_id/attempts", c.GetAttempts)
	api.GET("/me/results", c.ListResults)
}

// StartSession godoc
// @Summary Start a timed session for a test
// @Description Checks entitlement, then counts one attempt against the category's ceiling. Returns the questions without answers.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Param test_id path int true "Test ID"
// @Success 201 {object} dto.SessionStartDTO
// @Failure 402 {object} dto.ErrorResponse "Membership required; upsell holds the cheapest plan"
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Failure 409 {object} dto.ErrorResponse "A start for this test is already in progress"
// @Failure 429 {object} dto.ErrorResponse "No attempts left"
// @Failure 503 {object} dto.ErrorResponse "Attempt tracking unavailable"
// @Router /tests/{test_id}/sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	session, err := c.sessions.Start(ctx.Request.Context(), middleware.Subject(ctx), testID)
	if err != nil {
		controller.RespondError(ctx, err, "Could not start the test. Please try again.")
		return
	}
	ctx.JSON(http.StatusCreated, session)
}

// SubmitAnswers godoc
// @Summary Submit a session's answers for grading
// @Description answers maps a question index to the chosen option index; numbers and numeric strings are both accepted. Missing indexes count as unattempted. Each started session can be submitted once.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Param test_id path int true "Test ID"
// @Param submission body dto.SubmissionRequest true "Sparse answer map"
// @Success 200 {object} dto.SubmissionResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 402 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "No open session; start the test first"
// @Failure 503 {object} dto.ErrorResponse "Session tracking unavailable"
// @Router /tests/{test_id}/submissions [post]
func (c *SessionController) SubmitAnswers(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	var req dto.SubmissionRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	result, err := c.sessions.Submit(ctx.Request.Context(), middleware.Subject(ctx), testID, req.Answers)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to grade submission")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetAttempts godoc
// @Summary Attempts used and left for a test
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Param test_id path int true "Test ID"
// @Success 200 {object} dto.AttemptStatusDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /tests/{test_id}/attempts [get]
func (c *SessionController) GetAttempts(ctx *gin.Context) {
	testID, ok := controller.ParseID(ctx, "test_id")
	if !ok {
		return
	}
	status, err := c.sessions.Attempts(ctx.Request.Context(), middleware.Subject(ctx), testID)
	if err != nil {
		controller.RespondError(ctx, err, "Attempt counts are temporarily unavailable")
		return
	}
	ctx.JSON(http.StatusOK, status)
}

// ListResults godoc
// @Summary The caller's graded results, newest first
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param X-Guest-ID header string false "Guest id when not signed in"
// @Success 200 {array} dto.TestResultDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /me/results [get]
func (c *SessionController) ListResults(ctx *gin.Context) {
	results, err := c.sessions.Results(ctx.Request.Context(), middleware.Subject(ctx))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve results")
		return
	}
	ctx.JSON(http.StatusOK, results)
}
