package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/pte-scorer/internal/controller"
	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/lshigami/pte-scorer/internal/middleware"
	"github.com/lshigami/pte-scorer/internal/service"
	"github.com/rs/zerolog/log"
)

type ScoringController struct {
	scoringService service.ScoringService
	attemptService service.AttemptService
	usageService   service.UsageService
}

func NewScoringController(ss service.ScoringService, as service.AttemptService, us service.UsageService) *ScoringController {
	return &ScoringController{
		scoringService: ss,
		attemptService: as,
		usageService:   us,
	}
}

// RegisterRoutes mounts the learner routes on a group that already authenticates the user.
func (c *ScoringController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/questions/:question_id/submissions", c.Submit)
	rg.GET("/questions/:question_id/attempts", c.ListAttempts)
	rg.GET("/questions/:question_id/attempts/latest", c.LatestAttempt)
	rg.GET("/attempts/:attempt_id", c.GetAttempt)
	rg.GET("/usage", c.GetUsage)
}

// Submit godoc
// @Summary Submit a response for scoring
// @Description Scores one spoken, written or choice response. Audio is referenced by URL and transcribed first. Each successful call uses one unit of the daily allowance.
// @Tags Scoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Param submission body dto.SubmitRequest true "Tagged submission: kind plus the matching payload"
// @Success 201 {object} dto.ScoringResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed submission or kind does not match the question"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 429 {object} dto.ErrorResponse "Daily allowance used up"
// @Failure 500 {object} dto.ErrorResponse "scoring_unavailable or persist_error"
// @Failure 504 {object} dto.ErrorResponse "request_timeout: nothing saved, allowance not used"
// @Router /questions/{question_id}/submissions [post]
func (c *ScoringController) Submit(ctx *gin.Context) {
	questionID, ok := controller.ParseIDParam(ctx, "question_id")
	if !ok {
		return
	}
	var req dto.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}

	userID := middleware.UserID(ctx)
	log.Info().Str("user_id", userID).Uint("question_id", questionID).Str("kind", string(req.Submission.Kind)).Msg("Received submission")

	resp, err := c.scoringService.Submit(ctx.Request.Context(), userID, questionID, req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListAttempts godoc
// @Summary List my attempts at a question
// @Description Newest first.
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {array} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{question_id}/attempts [get]
func (c *ScoringController) ListAttempts(ctx *gin.Context) {
	questionID, ok := controller.ParseIDParam(ctx, "question_id")
	if !ok {
		return
	}
	attempts, err := c.attemptService.ListAttempts(ctx.Request.Context(), middleware.UserID(ctx), questionID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// LatestAttempt godoc
// @Summary Get my latest attempt at a question
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param question_id path int true "Question ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse "No attempts yet"
// @Router /questions/{question_id}/attempts/latest [get]
func (c *ScoringController) LatestAttempt(ctx *gin.Context) {
	questionID, ok := controller.ParseIDParam(ctx, "question_id")
	if !ok {
		return
	}
	attempt, err := c.attemptService.LatestAttempt(ctx.Request.Context(), middleware.UserID(ctx), questionID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// GetAttempt godoc
// @Summary Get one of my attempts
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /attempts/{attempt_id} [get]
func (c *ScoringController) GetAttempt(ctx *gin.Context) {
	attemptID, ok := controller.ParseIDParam(ctx, "attempt_id")
	if !ok {
		return
	}
	attempt, err := c.attemptService.GetAttempt(ctx.Request.Context(), middleware.UserID(ctx), attemptID)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// GetUsage godoc
// @Summary Get my remaining daily allowance
// @Description Informational only; submissions are checked again when they are scored.
// @Tags Scoring
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UsageResponse
// @Router /usage [get]
func (c *ScoringController) GetUsage(ctx *gin.Context) {
	usage, err := c.usageService.GetUsage(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, usage)
}
