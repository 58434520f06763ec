// Package contact stores public contact-form submissions for the admin
// inbox.
package contact

import (
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/model"
)

type contactService struct {
	repos *repository.Repositories
}

// NewContactService creates the contact service.
func NewContactService(repos *repository.Repositories) *contactService {
	return &contactService{repos: repos}
}

func (s *contactService) Submit(req request.ContactRequest) error {
	return s.repos.Contact.Create(&model.ContactMessage{
		Fullname: req.Fullname,
		Email:    req.Email,
		Tell:     req.Tell,
	})
}

func (s *contactService) List() ([]model.ContactMessage, error) {
	return s.repos.Contact.FindAll()
}

func (s *contactService) Delete(id uint) error {
	return s.repos.Contact.Delete(id)
}
