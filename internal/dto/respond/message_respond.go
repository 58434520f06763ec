package respond

import "time"

// MessageRespond is the wire form of one chat message, shared by the
// REST history payload and the new_message push event so the client
// merge sees one shape from both sources.
type MessageRespond struct {
	ID             int64     `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	SenderID       uint      `json:"sender_id"`
	Text           string    `json:"text"`
	AttachmentURL  string    `json:"attachment_url,omitempty"`
	AttachmentName string    `json:"attachment_name,omitempty"`
	AttachmentType string    `json:"attachment_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
