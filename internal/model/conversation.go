package model

import "gorm.io/gorm"

// Conversation is the chat thread tied to one delivery and its two
// participants. Created lazily on the first chat attempt; the unique
// index on delivery_id enforces one conversation per delivery.
type Conversation struct {
	gorm.Model

	DeliveryID uint `gorm:"column:delivery_id;uniqueIndex;not null" json:"delivery_id"`
	ClientID   uint `gorm:"column:client_user_id;index;not null" json:"client_user_id"`
	DriverID   uint `gorm:"column:driver_user_id;index;not null" json:"driver_user_id"`
}

func (Conversation) TableName() string {
	return "conversations"
}
