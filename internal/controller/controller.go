// Package controller holds helpers shared by the user and admin HTTP handlers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

// StatusFor maps service errors to HTTP statuses.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrAttemptsExhausted):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrSessionBusy):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Internal errors are logged and
// replaced by fallback so storage details never reach the client.
func RespondError(ctx *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	resp := dto.ErrorResponse{Message: err.Error()}
	switch status {
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(fallback)
		resp.Message = fallback
	case http.StatusServiceUnavailable:
		log.Warn().Err(err).Str("path", ctx.FullPath()).Msg(fallback)
		resp.Message = fallback
		resp.Details = []string{err.Error()}
	case http.StatusPaymentRequired:
		var denied *service.DeniedError
		if errors.As(err, &denied) {
			resp.Upsell = denied.Upsell
		}
	}
	ctx.JSON(status, resp)
}

// ParseID reads a numeric path parameter, writing a 400 when it is malformed.
func ParseID(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || v == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(v), true
}

// BindJSON binds the request body, writing a 400 on failure.
func BindJSON(ctx *gin.Context, v any) bool {
	if err := ctx.ShouldBindJSON(v); err != nil {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Msg("Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return false
	}
	return true
}
