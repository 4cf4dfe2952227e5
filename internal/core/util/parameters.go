package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func ParamsToMap[T any](c *gin.Context) (T, error) {
	var params T

	if err := c.ShouldBindJSON(&params); err != nil {
		return params, err
	}

	return params, nil
}

// ParseUserID accepts only a positive base-10 integer.
func ParseUserID(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)

	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}
