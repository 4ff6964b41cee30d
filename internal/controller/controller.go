package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/pte-scorer/internal/apperr"
	"github.com/lshigami/pte-scorer/internal/dto"
	"github.com/rs/zerolog/log"
)

// RespondError writes err as an ErrorResponse with the status its kind maps to
// and aborts the handler chain. Server-side failures never echo internal details.
func RespondError(ctx *gin.Context, err error) {
	status, code := apperr.HTTPStatus(err)
	resp := dto.ErrorResponse{Message: err.Error(), Code: code}

	switch code {
	case "scoring_unavailable":
		resp.Message = "Scoring is temporarily unavailable; your allowance was not used"
	case "persist_error":
		resp.Message = "Your response was scored but could not be saved; please submit again"
	case "request_timeout":
		resp.Message = "Scoring took too long and was abandoned; your allowance was not used"
	case "internal_error":
		resp.Message = "Internal server error"
	}

	var qe *apperr.QuotaExceededError
	if errors.As(err, &qe) {
		remaining, limit := qe.Remaining, qe.Limit
		resp.Remaining = &remaining
		resp.Limit = &limit
	}

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("path", ctx.FullPath()).Int("status", status).Str("code", code).Msg("Request failed")

	ctx.AbortWithStatusJSON(status, resp)
}

// RespondBindError reports a request that failed binding or struct validation.
func RespondBindError(ctx *gin.Context, err error) {
	var details []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag()))
		}
	} else {
		details = []string{err.Error()}
	}
	log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Invalid request body")
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
		Message: "Invalid request body",
		Code:    "validation_error",
		Details: details,
	})
}

// ParseIDParam reads a positive integer path parameter, responding 400 when it is malformed.
func ParseIDParam(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		RespondError(ctx, apperr.Validation("invalid %s %q", name, ctx.Param(name)))
		return 0, false
	}
	return uint(id), true
}
