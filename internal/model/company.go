package model

import "gorm.io/gorm"

// Company validation states, driven by the admin validation screen.
const (
	CompanyPending  = "pending"
	CompanyApproved = "approved"
	CompanyRejected = "rejected"
)

// Company is the onboarded delivery company profile, owned by a user
// account with the company role.
type Company struct {
	gorm.Model

	UserID      uint   `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Name        string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	TaxID       string `gorm:"column:tax_id;type:varchar(50)" json:"tax_id"`
	LegalStatus string `gorm:"column:legal_status;type:varchar(50)" json:"legal_status"`
	ContactName string `gorm:"column:contact_name;type:varchar(100)" json:"contact_name"`
	Email       string `gorm:"column:email;type:varchar(100)" json:"email"`
	Phone       string `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Address     string `gorm:"column:address;type:varchar(255)" json:"address"`
	LogoURL     string `gorm:"column:logo_url;type:varchar(255)" json:"logo_url"`

	// Validation gates the dashboard: pending companies cannot log into
	// company features until an admin approves the onboarding request.
	Validation string `gorm:"column:validation;index;type:varchar(10);not null;default:pending" json:"validation"`
}

func (Company) TableName() string {
	return "companies"
}
