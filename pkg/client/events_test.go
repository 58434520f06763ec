package client

import (
	"encoding/json"
	"testing"
)

func TestDecodeLoosePresenceVariants(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want PresenceEvent
	}{
		{"snake_case", `{"user_id": 42, "is_online": true}`, PresenceEvent{UserID: 42, IsOnline: true}},
		{"camelCase", `{"userId": 42, "isOnline": true}`, PresenceEvent{UserID: 42, IsOnline: true}},
		{"string bool", `{"user_id": 42, "is_online": "true"}`, PresenceEvent{UserID: 42, IsOnline: true}},
		{"numeric bool", `{"userId": "42", "isOnline": 1}`, PresenceEvent{UserID: 42, IsOnline: true}},
		{"offline", `{"userId": 42, "online": false}`, PresenceEvent{UserID: 42, IsOnline: false}},
		{"both spellings prefer canonical", `{"user_id": 1, "userId": 9, "is_online": true}`, PresenceEvent{UserID: 1, IsOnline: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got PresenceEvent
			if err := decodeLoose(json.RawMessage(tc.raw), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecodeLooseNotification(t *testing.T) {
	raw := `{"conversationId": 3, "messageId": 99, "senderId": 5, "preview": "salut"}`
	var got NotificationEvent
	if err := decodeLoose(json.RawMessage(raw), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := NotificationEvent{ConversationID: 3, MessageID: 99, SenderID: 5, Preview: "salut"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeLooseRejectsNonObject(t *testing.T) {
	var got PresenceEvent
	if err := decodeLoose(json.RawMessage(`"oops"`), &got); err == nil {
		t.Fatal("expected error for non-object payload")
	}
}
