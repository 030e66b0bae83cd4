// Package controller holds shared HTTP helpers for the API controllers.
package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/symposium-hq/sympro/internal/apperr"
	"github.com/symposium-hq/sympro/internal/dto"
)

// RespondError translates the service error taxonomy into HTTP at the edge.
// Unclassified errors are logged and hidden behind a generic 500.
func RespondError(ctx *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case apperr.KindForbidden:
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case apperr.KindConflict:
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case apperr.KindValidation:
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case apperr.KindUnauthorized:
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal server error"})
	}
}

// ParseUintParam reads a numeric path parameter. The bool result is false
// when the value is malformed, in which case a 400 has already been written.
func ParseUintParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

// ParseUintQuery is ParseUintParam for query parameters.
func ParseUintQuery(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Query(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}
