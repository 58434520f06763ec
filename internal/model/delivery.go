package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Delivery lifecycle states. Transitions are validated in the service
// layer; terminal states are delivered and cancelled.
const (
	DeliveryPending   = "pending"
	DeliveryAssigned  = "assigned"
	DeliveryInTransit = "in_transit"
	DeliveryDelivered = "delivered"
	DeliveryCancelled = "cancelled"
)

// Delivery is one transport order placed by a client with a company.
type Delivery struct {
	gorm.Model

	ClientID  uint          `gorm:"column:client_id;index;not null" json:"client_id"`
	CompanyID uint          `gorm:"column:company_id;index;not null" json:"company_id"`
	DriverID  sql.NullInt64 `gorm:"column:driver_id;index" json:"-"`

	PickupAddress  string  `gorm:"column:pickup_address;type:varchar(255);not null" json:"pickup_address"`
	DropoffAddress string  `gorm:"column:dropoff_address;type:varchar(255);not null" json:"dropoff_address"`
	Description    string  `gorm:"column:description;type:TEXT" json:"description"`
	Weight         float64 `gorm:"column:weight" json:"weight"`

	Status string `gorm:"column:status;index;type:varchar(12);not null;default:pending" json:"status"`

	DeliveredAt sql.NullTime `gorm:"column:delivered_at" json:"-"`
}

func (Delivery) TableName() string {
	return "deliveries"
}
