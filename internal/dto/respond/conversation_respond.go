package respond

import "time"

// ConversationRespond is the detail view: thread metadata plus the
// live-presence snapshot of both participants at fetch time.
type ConversationRespond struct {
	ID             uint `json:"id"`
	DeliveryID     uint `json:"delivery_id"`
	ClientUserID   uint `json:"client_user_id"`
	DriverUserID   uint `json:"driver_user_id"`
	ClientIsOnline bool `json:"client_is_online"`
	DriverIsOnline bool `json:"driver_is_online"`
}

// ConversationDetailRespond bundles the thread with its full ordered
// message history.
type ConversationDetailRespond struct {
	Conversation ConversationRespond `json:"conversation"`
	Messages     []MessageRespond    `json:"messages"`
}

// ConversationListItem annotates a thread for the conversation list:
// peer identity, latest message and the unread counter.
type ConversationListItem struct {
	ID            uint       `json:"id"`
	DeliveryID    uint       `json:"delivery_id"`
	PeerUserID    uint       `json:"peer_user_id"`
	PeerName      string     `json:"peer_name"`
	PeerOnline    bool       `json:"peer_online"`
	LastMessage   string     `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int64      `json:"unread_count"`

	// Delivery metadata shown and filtered in the list view.
	PickupAddress  string `json:"pickup_address"`
	DropoffAddress string `json:"dropoff_address"`
	Description    string `json:"description"`
}

// ConversationListRespond wraps the annotated list.
type ConversationListRespond struct {
	Conversations []ConversationListItem `json:"conversations"`
}
