// Package user implements the admin user-management service.
package user

import (
	"time"

	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
)

type userService struct {
	repos *repository.Repositories
}

// NewUserService creates the user management service.
func NewUserService(repos *repository.Repositories) *userService {
	return &userService{repos: repos}
}

func toRespond(u *model.User) respond.UserRespond {
	return respond.UserRespond{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Role:      u.Role,
		Status:    u.Status,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func (s *userService) GetAll() ([]respond.UserRespond, error) {
	users, err := s.repos.User.FindAll()
	if err != nil {
		return nil, err
	}
	rsp := make([]respond.UserRespond, 0, len(users))
	for i := range users {
		rsp = append(rsp, toRespond(&users[i]))
	}
	return rsp, nil
}

func (s *userService) GetByID(id uint) (*respond.UserRespond, error) {
	user, err := s.repos.User.FindByID(id)
	if err != nil {
		return nil, err
	}
	rsp := toRespond(user)
	return &rsp, nil
}

// Create is the admin path: accounts are created verified, since the
// admin vouches for the email.
func (s *userService) Create(req request.CreateUserRequest) (*respond.UserRespond, error) {
	if _, err := s.repos.User.FindByEmail(req.Email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "an account with this email already exists")
	}
	user := &model.User{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		RawPassword: req.Password,
		Role:        req.Role,
		Status:      model.UserStatusActive,
		Verified:    true,
	}
	if err := s.repos.User.Create(user); err != nil {
		return nil, err
	}
	rsp := toRespond(user)
	return &rsp, nil
}

func (s *userService) Update(id uint, req request.UpdateUserRequest) error {
	user, err := s.repos.User.FindByID(id)
	if err != nil {
		return err
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := s.repos.User.FindByEmail(req.Email); err == nil {
			return errorx.New(errorx.CodeUserExist, "an account with this email already exists")
		}
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	return s.repos.User.Update(user)
}

// Delete removes the account plus its role-specific profile row.
func (s *userService) Delete(id uint) error {
	user, err := s.repos.User.FindByID(id)
	if err != nil {
		return err
	}
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		switch user.Role {
		case model.RoleCompany:
			company, err := tx.Company.FindByUserID(id)
			if err == nil {
				if err := tx.Company.Delete(company.ID); err != nil {
					return err
				}
			} else if !errorx.IsNotFound(err) {
				return err
			}
		case model.RoleDriver:
			driver, err := tx.Driver.FindByUserID(id)
			if err == nil {
				if err := tx.Driver.Delete(driver.ID); err != nil {
					return err
				}
			} else if !errorx.IsNotFound(err) {
				return err
			}
		}
		return tx.User.Delete(id)
	})
}
