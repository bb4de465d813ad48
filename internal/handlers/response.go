package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/foodgram-backend/internal/apierr"
	"github.com/foodgram/foodgram-backend/internal/logger"
)

const defaultPageSize = 10

// RespondError maps service errors onto their HTTP shape. Anything that is
// not an apierr is a 500 with a generic body so internals never leak.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			log.Error("Request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(apiErr.Status, gin.H{"code": apiErr.Code, "error": apiErr.Error()})
		return
	}
	log.Error("Unhandled request error", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"code": "internal_error", "error": "internal server error"})
}

// ParsePagination reads the page/limit query params and turns them into an
// offset/limit pair. Out-of-range values fall back to the defaults.
func ParsePagination(c *gin.Context) (offset, limit int) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return (page - 1) * limit, limit
}

// queryFlag reads a boolean query param. Both "1" and "true" switch the
// flag on; anything else, including absence, leaves it off.
func queryFlag(c *gin.Context, key string) bool {
	value := c.Query(key)
	return value == "1" || value == "true"
}

func parsePositiveInt(raw string) (int, bool) {
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return 0, false
	}
	return parsed, true
}
