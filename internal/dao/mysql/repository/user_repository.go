package repository

import (
	"w9ayt_delivery_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates the user Repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user id=%d", id)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "find user email=%s", email)
	}
	return &user, nil
}

func (r *userRepository) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "list users")
	}
	return users, nil
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "create user")
	}
	return nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return wrapDBErrorf(err, "update user id=%d", user.ID)
	}
	return nil
}

func (r *userRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		return wrapDBErrorf(err, "delete user id=%d", id)
	}
	return nil
}

func (r *userRepository) SetVerified(id uint) error {
	if err := r.db.Model(&model.User{}).Where("id = ?", id).
		Update("verified", true).Error; err != nil {
		return wrapDBErrorf(err, "verify user id=%d", id)
	}
	return nil
}

func (r *userRepository) SetStatus(id uint, status string) error {
	if err := r.db.Model(&model.User{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return wrapDBErrorf(err, "set user status id=%d", id)
	}
	return nil
}

func (r *userRepository) CountByRole(role string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where("role = ?", role).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count users role=%s", role)
	}
	return count, nil
}
