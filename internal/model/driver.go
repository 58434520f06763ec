package model

import "gorm.io/gorm"

// Driver availability states shown on the company dashboard.
const (
	DriverAvailable = "available"
	DriverBusy      = "busy"
	DriverSuspended = "suspended"
	DriverOffline   = "offline"
)

// Driver is the company-scoped profile of a driver user. The user row
// carries credentials; this row carries dispatch data.
type Driver struct {
	gorm.Model

	UserID    uint `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	CompanyID uint `gorm:"column:company_id;index;not null" json:"company_id"`

	Patronim string `gorm:"column:patronim;type:varchar(100);not null" json:"patronim"`
	Phone    string `gorm:"column:phone_number;type:varchar(20)" json:"phone_number"`
	Email    string `gorm:"column:email;type:varchar(100)" json:"email"`

	Status              string `gorm:"column:status;index;type:varchar(10);not null;default:offline" json:"status"`
	CompletedDeliveries int    `gorm:"column:livraisons_effectuees;not null;default:0" json:"livraisons_effectuees"`
	CoverageZone        string `gorm:"column:zone_couverture;type:varchar(100)" json:"zone_couverture"`
}

func (Driver) TableName() string {
	return "drivers"
}
