package model

import "gorm.io/gorm"

// ContactMessage is a public contact-form submission, listed on the
// admin contact-messages screen.
type ContactMessage struct {
	gorm.Model

	Fullname string `gorm:"column:fullname;type:varchar(100);not null" json:"fullname"`
	Email    string `gorm:"column:email;type:varchar(100);not null" json:"email"`
	Tell     string `gorm:"column:tell;type:TEXT;not null" json:"tell"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
