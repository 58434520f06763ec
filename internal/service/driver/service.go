// Package driver implements the company drivers screen: each driver is
// a user account plus a company-scoped dispatch profile.
package driver

import (
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
)

type driverService struct {
	repos *repository.Repositories
}

// NewDriverService creates the driver management service.
func NewDriverService(repos *repository.Repositories) *driverService {
	return &driverService{repos: repos}
}

func (s *driverService) companyOf(companyUserID uint) (*model.Company, error) {
	return s.repos.Company.FindByUserID(companyUserID)
}

// owned fetches a driver and checks it belongs to the caller's company.
func (s *driverService) owned(companyUserID, driverID uint) (*model.Driver, error) {
	company, err := s.companyOf(companyUserID)
	if err != nil {
		return nil, err
	}
	driver, err := s.repos.Driver.FindByID(driverID)
	if err != nil {
		return nil, err
	}
	if driver.CompanyID != company.ID {
		return nil, errorx.New(errorx.CodeForbidden, "driver belongs to another company")
	}
	return driver, nil
}

func (s *driverService) ListByCompany(companyUserID uint) ([]model.Driver, error) {
	company, err := s.companyOf(companyUserID)
	if err != nil {
		return nil, err
	}
	return s.repos.Driver.FindByCompany(company.ID)
}

func (s *driverService) GetByID(companyUserID, driverID uint) (*model.Driver, error) {
	return s.owned(companyUserID, driverID)
}

// Add creates the driver's user account and profile in one transaction.
// Driver accounts are verified at creation, the company vouches for them.
func (s *driverService) Add(companyUserID uint, req request.AddDriverRequest) (*model.Driver, error) {
	company, err := s.companyOf(companyUserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.User.FindByEmail(req.Email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "an account with this email already exists")
	}

	var driver *model.Driver
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		user := &model.User{
			Name:        req.Patronim,
			Email:       req.Email,
			Phone:       req.Telephone,
			RawPassword: req.Password,
			Role:        model.RoleDriver,
			Status:      model.UserStatusActive,
			Verified:    true,
		}
		if err := tx.User.Create(user); err != nil {
			return err
		}
		driver = &model.Driver{
			UserID:       user.ID,
			CompanyID:    company.ID,
			Patronim:     req.Patronim,
			Phone:        req.Telephone,
			Email:        req.Email,
			Status:       model.DriverOffline,
			CoverageZone: req.CoverageZone,
		}
		return tx.Driver.Create(driver)
	})
	if err != nil {
		return nil, err
	}
	return driver, nil
}

func (s *driverService) Update(companyUserID, driverID uint, req request.UpdateDriverRequest) error {
	driver, err := s.owned(companyUserID, driverID)
	if err != nil {
		return err
	}
	if req.Patronim != "" {
		driver.Patronim = req.Patronim
	}
	if req.Telephone != "" {
		driver.Phone = req.Telephone
	}
	if req.Status != "" {
		driver.Status = req.Status
	}
	if req.CoverageZone != "" {
		driver.CoverageZone = req.CoverageZone
	}
	return s.repos.Driver.Update(driver)
}

// Delete removes the profile and its user account together.
func (s *driverService) Delete(companyUserID, driverID uint) error {
	driver, err := s.owned(companyUserID, driverID)
	if err != nil {
		return err
	}
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Driver.Delete(driver.ID); err != nil {
			return err
		}
		return tx.User.Delete(driver.UserID)
	})
}
