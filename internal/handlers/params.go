package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// parseID parses a positive int64 route parameter.
func parseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePagination reads limit/offset query parameters with defaults; a
// non-positive limit or negative offset is reported as invalid.
func parsePagination(c *fiber.Ctx, defaultLimit int) (limit, offset int, ok bool) {
	limit = defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return 0, 0, false
		}
		limit = parsed
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			return 0, 0, false
		}
		offset = parsed
	}
	return limit, offset, true
}
