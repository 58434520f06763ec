package handler

import (
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/service/chat"
	"w9ayt_delivery_server/pkg/errorx"
	"w9ayt_delivery_server/pkg/util/jwt"
)

// WsHandler upgrades authenticated clients onto the realtime gateway.
type WsHandler struct {
	broker chat.Broker
}

func NewWsHandler(broker chat.Broker) *WsHandler {
	return &WsHandler{broker: broker}
}

// Connect handles GET /ws?token=. Browsers cannot set headers on a
// websocket handshake, so the access token rides the query string.
func (h *WsHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	claims, err := jwt.ParseToken(token)
	if err != nil || claims.Subject != "access_token" {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "invalid or expired token"))
		return
	}

	if _, err := chat.NewClientInit(c, claims.UserID, h.broker); err != nil {
		zap.L().Warn("websocket upgrade failed",
			zap.Int64("user_id", claims.UserID), zap.Error(err))
	}
}
