package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/pkg/errorx"
)

func errParamRequired(name string) error {
	return errorx.Newf(errorx.CodeInvalidParam, "%s is required", name)
}

// paramUint parses a numeric path parameter.
func paramUint(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errorx.Newf(errorx.CodeInvalidParam, "%s must be a positive integer", name)
	}
	return uint(v), nil
}
