package client

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
)

// PresenceEvent is the normalized user_online_status payload. Servers
// of different vintages spell the keys differently (user_id vs userId)
// and some send booleans as strings; normalization absorbs both.
type PresenceEvent struct {
	UserID   int64 `mapstructure:"user_id"`
	IsOnline bool  `mapstructure:"is_online"`
}

// NotificationEvent is the new_message_notification payload.
type NotificationEvent struct {
	ConversationID uint   `mapstructure:"conversation_id"`
	MessageID      int64  `mapstructure:"message_id"`
	SenderID       uint   `mapstructure:"sender_id"`
	Preview        string `mapstructure:"preview"`
}

// JoinResult reports the server's verdict on a join attempt.
type JoinResult struct {
	ConversationID uint   `mapstructure:"conversation_id"`
	OK             bool   `mapstructure:"-"`
	Reason         string `mapstructure:"reason"`
}

// camelAliases maps camelCase spellings onto the canonical snake_case
// keys before decoding.
var camelAliases = map[string]string{
	"userId":         "user_id",
	"isOnline":       "is_online",
	"online":         "is_online",
	"conversationId": "conversation_id",
	"messageId":      "message_id",
	"senderId":       "sender_id",
}

// decodeLoose unmarshals raw into out, tolerating key-spelling and
// scalar-type variance.
func decodeLoose(raw json.RawMessage, out any) error {
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return err
	}
	for from, to := range camelAliases {
		if v, ok := loose[from]; ok {
			if _, exists := loose[to]; !exists {
				loose[to] = v
			}
			delete(loose, from)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(loose)
}
