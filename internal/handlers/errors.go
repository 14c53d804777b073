package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps application errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrDuplicatePendingRequest),
		errors.Is(err, apperrors.ErrAlreadyEmployed),
		errors.Is(err, apperrors.ErrPositionFull),
		errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrPartialPayroll):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the matching status. Server-side failures get a
// generic message so store details do not leak.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromContext(c)
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.Int("status", status), slog.String("error", err.Error()))
		message := "Failed to " + action
		if status == http.StatusBadGateway {
			message = err.Error()
		}
		c.JSON(status, gin.H{"error": message})
		return
	}
	logger.Warn("Rejected request to "+action, slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// actorFromContext returns the authenticated player or writes 401.
func actorFromContext(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("Player ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return actorID, true
}

// idParam parses a numeric path parameter or writes 400.
func idParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ": " + raw})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any, action string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to bind JSON for "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any, action string) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid query for "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, req any, action string) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, req, action)
}

func boolQuery(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
	return err == nil && v
}
