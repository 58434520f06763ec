// Package handler binds HTTP requests to the service layer and shapes
// every response into the {code, msg, data} envelope.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"w9ayt_delivery_server/pkg/errorx"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// HandleSuccess writes a 200 envelope with the payload.
func HandleSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: errorx.CodeSuccess, Msg: "success", Data: data})
}

// httpStatus maps a business code onto the transport status.
func httpStatus(code int) int {
	switch code {
	case errorx.CodeInvalidParam:
		return http.StatusBadRequest
	case errorx.CodeUnauthorized:
		return http.StatusUnauthorized
	case errorx.CodeForbidden:
		return http.StatusForbidden
	case errorx.CodeNotFound, errorx.CodeUserNotExist:
		return http.StatusNotFound
	case errorx.CodeConflict, errorx.CodeUserExist:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes the envelope for a service-layer error. Internal
// causes are logged, never leaked.
func HandleError(c *gin.Context, err error) {
	code := errorx.GetCode(err)
	msg := err.Error()
	if code == errorx.CodeServerBusy || code == errorx.CodeDBError || code == errorx.CodeCacheError {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("code", code),
			zap.Error(err))
		msg = errorx.ErrServerBusy.Msg
	}
	c.JSON(httpStatus(code), Response{Code: code, Msg: msg})
}

// HandleParamError writes a 400 with the translated validation message.
func HandleParamError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{
		Code: errorx.CodeInvalidParam,
		Msg:  TranslateError(err),
	})
}
