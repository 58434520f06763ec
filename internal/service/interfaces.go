// Package service declares the business-logic interfaces the handler
// layer depends on. Implementations live in the subpackages.
package service

import (
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
)

// AuthService handles signup, onboarding, login and token lifecycle.
type AuthService interface {
	Signup(req request.SignupRequest) (*respond.SignupRespond, error)
	CompanySignup(req request.CompanySignupRequest) (*respond.SignupRespond, error)
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	Refresh(refreshToken string) (*respond.LoginRespond, error)
	ForgotPassword(email string) error
	ResetPassword(token, password string) error
	VerifyEmail(token string) error
}

// UserService backs the admin user-management screen.
type UserService interface {
	GetAll() ([]respond.UserRespond, error)
	GetByID(id uint) (*respond.UserRespond, error)
	Create(req request.CreateUserRequest) (*respond.UserRespond, error)
	Update(id uint, req request.UpdateUserRequest) error
	Delete(id uint) error
}

// CompanyService covers the company profile plus admin validation.
type CompanyService interface {
	GetProfile(userID uint) (*model.Company, error)
	UpdateProfile(userID uint, req request.UpdateCompanyProfileRequest) error
	ListApproved() ([]model.Company, error)
	ListAll(validation string) ([]model.Company, error)
	Validate(companyID uint, decision string) error
}

// DriverService backs the company drivers screen.
type DriverService interface {
	ListByCompany(companyUserID uint) ([]model.Driver, error)
	GetByID(companyUserID, driverID uint) (*model.Driver, error)
	Add(companyUserID uint, req request.AddDriverRequest) (*model.Driver, error)
	Update(companyUserID, driverID uint, req request.UpdateDriverRequest) error
	Delete(companyUserID, driverID uint) error
}

// DeliveryService covers client, company and driver delivery flows.
type DeliveryService interface {
	Create(clientID uint, req request.CreateDeliveryRequest) (*model.Delivery, error)
	ListForClient(clientID uint, req request.ListDeliveriesRequest) (*respond.DeliveryListRespond, error)
	History(clientID uint, req request.DeliveryHistoryRequest) (*respond.DeliveryListRespond, error)
	Cancel(clientID, deliveryID uint) error
	ListForCompany(companyUserID uint, req request.ListDeliveriesRequest) (*respond.DeliveryListRespond, error)
	Assign(companyUserID, deliveryID, driverID uint) error
	AvailableForDriver(driverUserID uint) ([]model.Delivery, error)
	Accept(driverUserID, deliveryID uint) error
	UpdateStatus(driverUserID, deliveryID uint, status string) error
}

// StatisticsService aggregates dashboard numbers.
type StatisticsService interface {
	CompanyStatistics(companyUserID uint) (*respond.StatisticsRespond, error)
	Performance(companyUserID uint) (*respond.PerformanceRespond, error)
	AdminStatistics() (*respond.AdminStatisticsRespond, error)
}

// ContactService stores and lists contact-form submissions.
type ContactService interface {
	Submit(req request.ContactRequest) error
	List() ([]model.ContactMessage, error)
	Delete(id uint) error
}

// ConversationService is the REST side of chat: threads, history,
// message submission and attachment access control.
type ConversationService interface {
	CreateOrGet(userID, deliveryID uint) (*respond.ConversationRespond, error)
	List(userID uint) (*respond.ConversationListRespond, error)
	Get(userID, conversationID uint) (*respond.ConversationDetailRespond, error)
	SendMessage(userID, conversationID uint, text string, attachment *model.Attachment) (*respond.MessageRespond, error)
	ResolveAttachment(userID uint, filename string) (string, error)
}

// Repositories re-exported for the provider signature.
type Repositories = repository.Repositories
