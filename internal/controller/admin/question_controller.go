package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/pte-scorer/internal/controller"
	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/lshigami/pte-scorer/internal/service"
)

type QuestionController struct {
	questionService service.QuestionService
	attemptService  service.AttemptService
}

func NewQuestionController(qs service.QuestionService, as service.AttemptService) *QuestionController {
	return &QuestionController{questionService: qs, attemptService: as}
}

func (c *QuestionController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/questions", c.CreateQuestion)
	rg.GET("/questions", c.ListQuestions)
	rg.GET("/questions/:question_id", c.GetQuestion)
	rg.PATCH("/attempts/:attempt_id/review", c.ReviewAttempt)
}

// CreateQuestion godoc
// @Summary (Admin) Create a question
// @Description Choice questions need options and an answer key drawn from those options.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security AdminToken
// @Param question body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid question"
// @Failure 403 {object} dto.ErrorResponse "Admin token required"
// @Router /admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}
	resp, err := c.questionService.CreateQuestion(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListQuestions godoc
// @Summary (Admin) List questions
// @Tags Admin - Questions
// @Produce json
// @Security AdminToken
// @Param type query string false "Filter by question type"
// @Success 200 {array} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown question type"
// @Router /admin/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	var query dto.ListQuestionsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}
	questions, err := c.questionService.ListQuestions(ctx.Request.Context(), query.Type)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetQuestion godoc
// @Summary (Admin) Get a question
// @Tags Admin - Questions
// @Produce json
// @Security AdminToken
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{question_id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "question_id")
	if !ok {
		return
	}
	resp, err := c.questionService.GetQuestion(ctx.Request.Context(), id)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ReviewAttempt godoc
// @Summary (Admin) Flag an attempt for review
// @Description Only the review flag and note can change; scores are write-once.
// @Tags Admin - Attempts
// @Accept json
// @Produce json
// @Security AdminToken
// @Param attempt_id path int true "Attempt ID"
// @Param review body dto.ReviewAttemptRequest true "Review flag"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /admin/attempts/{attempt_id}/review [patch]
func (c *QuestionController) ReviewAttempt(ctx *gin.Context) {
	id, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	var req dto.ReviewAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}
	resp, err := c.attemptService.ReviewAttempt(ctx.Request.Context(), id, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
