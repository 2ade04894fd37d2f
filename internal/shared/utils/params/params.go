package params

import (
	"strconv"

	"cinephoria/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

// UintParam parses a positive integer path parameter.
func UintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, apperrors.Validation(name + " must be a positive integer")
	}
	return uint(v), nil
}
