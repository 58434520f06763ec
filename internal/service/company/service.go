// Package company implements the company profile service and the admin
// validation workflow.
package company

import (
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
)

type companyService struct {
	repos *repository.Repositories
}

// NewCompanyService creates the company service.
func NewCompanyService(repos *repository.Repositories) *companyService {
	return &companyService{repos: repos}
}

func (s *companyService) GetProfile(userID uint) (*model.Company, error) {
	return s.repos.Company.FindByUserID(userID)
}

func (s *companyService) UpdateProfile(userID uint, req request.UpdateCompanyProfileRequest) error {
	company, err := s.repos.Company.FindByUserID(userID)
	if err != nil {
		return err
	}
	if req.Name != "" {
		company.Name = req.Name
	}
	if req.TaxID != "" {
		company.TaxID = req.TaxID
	}
	if req.LegalStatus != "" {
		company.LegalStatus = req.LegalStatus
	}
	if req.ContactName != "" {
		company.ContactName = req.ContactName
	}
	if req.Email != "" {
		company.Email = req.Email
	}
	if req.Phone != "" {
		company.Phone = req.Phone
	}
	if req.Address != "" {
		company.Address = req.Address
	}
	if req.LogoURL != "" {
		company.LogoURL = req.LogoURL
	}
	return s.repos.Company.Update(company)
}

// ListApproved is the public catalogue clients order from.
func (s *companyService) ListApproved() ([]model.Company, error) {
	return s.repos.Company.FindAll(model.CompanyApproved)
}

// ListAll is the admin view; validation filters when non-empty.
func (s *companyService) ListAll(validation string) ([]model.Company, error) {
	return s.repos.Company.FindAll(validation)
}

// Validate settles a pending onboarding request. Decisions are final:
// a settled request cannot be re-decided.
func (s *companyService) Validate(companyID uint, decision string) error {
	company, err := s.repos.Company.FindByID(companyID)
	if err != nil {
		return err
	}
	if company.Validation != model.CompanyPending {
		return errorx.Newf(errorx.CodeConflict, "onboarding request already %s", company.Validation)
	}
	return s.repos.Company.SetValidation(companyID, decision)
}
