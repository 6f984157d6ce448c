package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ShehanaHewage/TheCloset/services"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// paginationParams extracts and clamps page/limit query parameters.
func paginationParams(c *gin.Context) (int, int) {
	page := defaultPage
	limit := defaultLimit

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limit = l
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}

// queryValue returns the first non-empty query value among keys. Filters are
// published in camelCase but the snake_case spellings remain accepted.
func queryValue(c *gin.Context, keys ...string) string {
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			return v
		}
	}
	return ""
}

// fail writes the error envelope with the given status.
func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}

// svcFail writes the error envelope for a ServiceError.
func svcFail(c *gin.Context, err *services.ServiceError) {
	fail(c, err.StatusCode, err.Message)
}
