package chat

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"w9ayt_delivery_server/pkg/constants"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 8 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers send the SPA origin; auth is the token, not the origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// UserConn is one authenticated websocket connection.
type UserConn struct {
	UserID int64

	conn    *websocket.Conn
	broker  Broker
	sendTo  chan []byte
	done    chan struct{}
	closeMu sync.Once
}

// NewClientInit upgrades the request and starts the read/write pumps.
func NewClientInit(c *gin.Context, userID int64, broker Broker) (*UserConn, error) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return nil, err
	}
	uc := &UserConn{
		UserID: userID,
		conn:   conn,
		broker: broker,
		sendTo: make(chan []byte, constants.CHANNEL_SIZE),
		done:   make(chan struct{}),
	}
	broker.Connect(uc)
	go uc.readPump()
	go uc.writePump()
	return uc, nil
}

// SendMsg queues bytes for the write pump. A consumer that cannot keep
// up loses the event rather than stalling the broker.
func (uc *UserConn) SendMsg(data []byte) {
	select {
	case uc.sendTo <- data:
	case <-uc.done:
	default:
		zap.L().Warn("dropping event for slow websocket consumer",
			zap.Int64("user_id", uc.UserID))
	}
}

// close is idempotent: the broker closes a superseded socket on login
// and the survivor again on logout.
func (uc *UserConn) close() {
	uc.closeMu.Do(func() {
		close(uc.done)
		_ = uc.conn.Close()
	})
}

func (uc *UserConn) readPump() {
	defer uc.broker.Disconnect(uc)

	uc.conn.SetReadLimit(maxMsgSize)
	_ = uc.conn.SetReadDeadline(time.Now().Add(pongWait))
	uc.conn.SetPongHandler(func(string) error {
		uc.broker.Touch(uc.UserID)
		return uc.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := uc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("websocket read failed",
					zap.Int64("user_id", uc.UserID), zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			zap.L().Warn("malformed websocket envelope",
				zap.Int64("user_id", uc.UserID), zap.Error(err))
			continue
		}

		switch env.Event {
		case EventJoinConversation, EventLeaveConversation, EventSendMessage, EventMarkAsSeen:
			uc.broker.Dispatch(&Frame{UserID: uc.UserID, Event: env.Event, Data: env.Data})
		default:
			zap.L().Debug("ignoring unknown websocket event",
				zap.Int64("user_id", uc.UserID), zap.String("event", env.Event))
		}
	}
}

func (uc *UserConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-uc.sendTo:
			_ = uc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := uc.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = uc.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := uc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-uc.done:
			_ = uc.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
