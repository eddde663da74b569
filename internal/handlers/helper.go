package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ParseStringIDParam writes a 400 and returns "" when the path param is blank.
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// ParseUintIDParam writes a 400 and returns 0 when the path param is not a positive id.
func ParseUintIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		details := "ID must be a positive integer"
		if err != nil {
			details = err.Error()
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: details,
		})
		return 0
	}
	return uint(id)
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// parseDateQuery accepts RFC 3339 timestamps or plain YYYY-MM-DD dates. A plain date means
// UTC midnight, or the last instant of that day when endOfDay is set.
func parseDateQuery(c *gin.Context, param string, endOfDay bool) (*time.Time, bool) {
	valueStr := c.Query(param)
	if valueStr == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, valueStr); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.DateOnly, valueStr); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
		}
		return &t, true
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Message: "Invalid " + param,
		Details: "expected RFC 3339 timestamp or YYYY-MM-DD",
	})
	return nil, false
}
