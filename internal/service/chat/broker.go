package chat

import (
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
)

// Broadcaster is the surface the REST side needs: hand a frame to the
// fan-out machinery. In kafka mode this crosses instances.
type Broadcaster interface {
	Publish(frame *Frame) error
}

// MessageSender persists a socket-submitted message. Implemented by the
// conversation service so the socket and REST submit paths share one
// persistence pipeline.
type MessageSender interface {
	SendMessage(userID, conversationID uint, text string, attachment *model.Attachment) (*respond.MessageRespond, error)
}

// Broker is the full realtime contract the gateway connects into.
type Broker interface {
	Broadcaster

	// Connect and Disconnect register socket lifecycle. Disconnect is
	// idempotent.
	Connect(conn *UserConn)
	Disconnect(conn *UserConn)

	// Dispatch routes a frame read off a client socket.
	Dispatch(frame *Frame)

	// Touch refreshes the user's presence TTL on socket heartbeats.
	Touch(userID int64)

	Start()
	Close() error
}
