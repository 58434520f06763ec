package model

import "time"

// Message is one chat message. Rows are immutable once created.
// The primary key is a snowflake id, so id order doubles as the
// tiebreak when two messages share a created_at timestamp.
type Message struct {
	ID             int64     `gorm:"column:id;primaryKey;type:bigint;not null" json:"id"`
	ConversationID uint      `gorm:"column:conversation_id;index;not null" json:"conversation_id"`
	SenderID       uint      `gorm:"column:sender_id;index;not null" json:"sender_id"`
	Text           string    `gorm:"column:text;type:TEXT" json:"text"`
	AttachmentURL  string    `gorm:"column:attachment_url;type:varchar(255)" json:"attachment_url,omitempty"`
	AttachmentName string    `gorm:"column:attachment_name;type:varchar(100)" json:"attachment_name,omitempty"`
	AttachmentType string    `gorm:"column:attachment_type;type:varchar(50)" json:"attachment_type,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;index;not null" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// Attachment is the stored-upload metadata a message submit carries.
type Attachment struct {
	URL  string
	Name string
	Type string
}
