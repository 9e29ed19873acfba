// Package controller holds the pieces shared by the admin and user handlers.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/lshigami/ieltsprep/internal/validation"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		if verrs.Has(validation.KindPersistenceFailure) {
			return http.StatusInternalServerError
		}
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrTrackNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrSubmissionNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSubmissionLocked),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrTrackNotActive):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAIUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Validation lists are sent
// whole in Details; internal errors are logged and not echoed back.
func RespondError(ctx *gin.Context, err error, message string) {
	status := StatusFor(err)
	resp := dto.ErrorResponse{Message: message}
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		resp.Details = verrs
	case status < http.StatusInternalServerError:
		resp.Details = []string{err.Error()}
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Int("status", status).Msg(message)
	} else {
		log.Warn().Err(err).Str("path", ctx.FullPath()).Int("status", status).Msg(message)
	}
	ctx.JSON(status, resp)
}

// BindJSON decodes the body into obj and answers 400 on failure.
func BindJSON(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return false
	}
	return true
}

// Healthz answers 200 while the database is reachable.
func Healthz(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx.Request.Context())
		}
		if err != nil {
			log.Warn().Err(err).Msg("Health check: database unreachable")
			ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "database unreachable"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
