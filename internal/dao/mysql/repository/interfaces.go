// Package repository defines the data access layer. Interfaces live here;
// each entity's implementation sits in its own file.
package repository

import (
	"time"

	"w9ayt_delivery_server/internal/model"
)

// MonthlyCount is one month of delivery volume for the statistics screen.
type MonthlyCount struct {
	Month     string `json:"month"`
	Total     int64  `json:"total"`
	Delivered int64  `json:"delivered"`
}

// StatusCount is one slice of the delivery status distribution chart.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DeliveryFilter narrows history and listing queries. Zero values are
// ignored, so the same filter serves paged lists and full history.
type DeliveryFilter struct {
	Search   string
	Status   string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// UserRepository provides user account persistence.
type UserRepository interface {
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll() ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id uint) error
	SetVerified(id uint) error
	SetStatus(id uint, status string) error
	CountByRole(role string) (int64, error)
}

// CompanyRepository provides company profile persistence.
type CompanyRepository interface {
	FindByID(id uint) (*model.Company, error)
	FindByUserID(userID uint) (*model.Company, error)
	FindAll(validation string) ([]model.Company, error)
	Create(company *model.Company) error
	Update(company *model.Company) error
	SetValidation(id uint, state string) error
	Delete(id uint) error
}

// DriverRepository provides driver profile persistence.
type DriverRepository interface {
	FindByID(id uint) (*model.Driver, error)
	FindByUserID(userID uint) (*model.Driver, error)
	FindByCompany(companyID uint) ([]model.Driver, error)
	Create(driver *model.Driver) error
	Update(driver *model.Driver) error
	Delete(id uint) error
	SetStatus(id uint, status string) error
	IncrementCompleted(id uint) error
	CountByCompanyAndStatus(companyID uint, status string) (int64, error)
}

// DeliveryRepository provides delivery persistence plus the aggregation
// queries behind the dashboard statistics.
type DeliveryRepository interface {
	FindByID(id uint) (*model.Delivery, error)
	FindByClient(clientID uint, f DeliveryFilter) ([]model.Delivery, int64, error)
	FindByCompany(companyID uint, f DeliveryFilter) ([]model.Delivery, int64, error)
	FindPendingByCompany(companyID uint) ([]model.Delivery, error)
	FindByDriver(driverID uint, f DeliveryFilter) ([]model.Delivery, int64, error)
	Create(delivery *model.Delivery) error
	Update(delivery *model.Delivery) error

	CountByCompanyStatusBetween(companyID uint, status string, from, to time.Time) (int64, error)
	MonthlyStats(companyID uint, from time.Time) ([]MonthlyCount, error)
	StatusDistribution(companyID uint) ([]StatusCount, error)
}

// ConversationRepository provides chat thread persistence.
type ConversationRepository interface {
	FindByID(id uint) (*model.Conversation, error)
	FindByDeliveryID(deliveryID uint) (*model.Conversation, error)
	FindForUser(userID uint) ([]model.Conversation, error)
	Create(conversation *model.Conversation) error
}

// MessageRepository provides chat message persistence.
type MessageRepository interface {
	Create(message *model.Message) error
	FindByConversation(conversationID uint) ([]model.Message, error)
	FindLastByConversation(conversationID uint) (*model.Message, error)
	FindByAttachment(filename string) (*model.Message, error)
}

// ContactRepository provides contact-form submission persistence.
type ContactRepository interface {
	Create(msg *model.ContactMessage) error
	FindAll() ([]model.ContactMessage, error)
	Delete(id uint) error
}
