// Package chat is the realtime layer: the websocket gateway, the room
// registry and the message broker that fans events out to connected
// participants, either in-process or through Kafka.
package chat

import (
	"encoding/json"

	"w9ayt_delivery_server/internal/dto/respond"
)

// Events a client may send over the socket.
const (
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventMarkAsSeen        = "mark_as_seen"
)

// Events the server pushes to clients.
const (
	EventNewMessage             = "new_message"
	EventNewMessageNotification = "new_message_notification"
	EventUserOnlineStatus       = "user_online_status"
	EventJoinSuccess            = "join_success"
	EventJoinError              = "join_error"
)

// EventDeliverMessage is internal: it carries an already-persisted
// message from the REST submit path (or another instance, in kafka
// mode) to the fan-out side. It never comes from a client socket.
const EventDeliverMessage = "deliver_message"

// Envelope is the wire form of every socket event, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Frame is an Envelope stamped with the originating user, the unit the
// broker routes and, in kafka mode, serializes onto the topic.
type Frame struct {
	UserID int64           `json:"user_id"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// RoomPayload addresses join, leave and seen events.
type RoomPayload struct {
	ConversationID uint `json:"conversation_id"`
}

// SendMessagePayload is the socket message-submit body. Attachments go
// through the REST multipart endpoint instead.
type SendMessagePayload struct {
	ConversationID uint   `json:"conversation_id"`
	Text           string `json:"text"`
}

// PresencePayload announces a participant going online or offline.
type PresencePayload struct {
	UserID   int64 `json:"user_id"`
	IsOnline bool  `json:"is_online"`
}

// NotificationPayload nudges a participant who is not in the room.
type NotificationPayload struct {
	ConversationID uint   `json:"conversation_id"`
	MessageID      int64  `json:"message_id"`
	SenderID       uint   `json:"sender_id"`
	Preview        string `json:"preview"`
}

// DeliverPayload is the deliver_message body: the persisted message
// plus both participant ids, so fan-out needs no database lookup.
type DeliverPayload struct {
	Message  respond.MessageRespond `json:"message"`
	ClientID uint                   `json:"client_user_id"`
	DriverID uint                   `json:"driver_user_id"`
}

// JoinErrorPayload tells the client a join was refused, so it can stop
// retrying.
type JoinErrorPayload struct {
	ConversationID uint   `json:"conversation_id"`
	Reason         string `json:"reason"`
}

// MarshalEnvelope builds the wire bytes for a push event.
func MarshalEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
