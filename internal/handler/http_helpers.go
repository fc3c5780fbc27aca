package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/seox/internal/logger"
	"github.com/seox/internal/middleware"
	"github.com/seox/internal/service"
	"github.com/seox/internal/workflow"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError 把 service 层错误映射为统一的 HTTP 错误响应。
func respondServiceError(c *gin.Context, err error) {
	var verrs validation.Errors
	var ite *workflow.InvalidTransitionError

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": verrs,
		})
	case errors.As(err, &ite):
		c.JSON(http.StatusConflict, gin.H{
			"error":           "invalid status transition",
			"currentStatus":   ite.Current,
			"requestedStatus": ite.Requested,
		})
	case errors.Is(err, workflow.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, workflow.ErrForbidden):
		respondError(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, workflow.ErrConflict):
		respondError(c, http.StatusConflict, "the record was modified concurrently, refetch and retry")
	case errors.Is(err, service.ErrEditLocked):
		respondError(c, http.StatusConflict, "post is not editable in its current status")
	case errors.Is(err, service.ErrPostPublished):
		respondError(c, http.StatusConflict, "published posts must be archived before deletion")
	case errors.Is(err, service.ErrAccountInUse):
		respondError(c, http.StatusConflict, "account still owns posts or backlinks")
	case errors.Is(err, service.ErrUsernameTaken):
		respondError(c, http.StatusConflict, "username already taken")
	case errors.Is(err, service.ErrBadCredentials):
		respondError(c, http.StatusUnauthorized, "invalid username or password")
	default:
		logger.WithRequestID(middleware.GetRequestID(c)).Error("request failed",
			"path", c.FullPath(),
			"error", err.Error(),
		)
		respondError(c, http.StatusInternalServerError, "internal error")
	}
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parseUintQuery(c *gin.Context, key string) uint {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func parseIntQuery(c *gin.Context, key string) int {
	raw := c.Query(key)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}
