package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads an integer path parameter, answering 400 INVALID_ID
// when it is not one.
func parseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		writeError(c, http.StatusBadRequest,
			"INVALID_ID",
			name+" must be an integer",
		)
		return 0, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, key string, def int) (int, bool) {
	s := c.Query(key)
	if s == "" {
		return def, true
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		writeError(c, http.StatusBadRequest,
			"INVALID_QUERY",
			key+" must be an integer",
		)
		return 0, false
	}
	return v, true
}

func parseOptionalIntQuery(c *gin.Context, key string) (*int, bool) {
	if c.Query(key) == "" {
		return nil, true
	}

	v, ok := parseIntQuery(c, key, 0)
	if !ok {
		return nil, false
	}
	return &v, true
}
