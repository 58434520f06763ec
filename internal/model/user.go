// Package model defines the database entities.
package model

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles a user account can hold. Company and admin accounts are created
// through onboarding and seeding respectively, never via public signup.
const (
	RoleClient  = "client"
	RoleDriver  = "driver"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

// Account statuses.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User is any authenticated account on the platform.
type User struct {
	gorm.Model

	Name    string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Email   string `gorm:"column:email;uniqueIndex;type:varchar(100);not null" json:"email"`
	Phone   string `gorm:"column:phone;type:varchar(20)" json:"phone"`
	Address string `gorm:"column:address;type:varchar(255)" json:"address"`

	// Password stores the bcrypt hash; the plaintext only ever lives in
	// RawPassword, which is encrypted in BeforeSave and never persisted.
	Password    string `gorm:"column:password;type:varchar(100);not null" json:"-"`
	RawPassword string `gorm:"-" json:"-"`

	Role     string `gorm:"column:role;index;type:varchar(10);not null" json:"role"`
	Status   string `gorm:"column:status;type:varchar(10);not null;default:active" json:"status"`
	Verified bool   `gorm:"column:verified;not null;default:false" json:"verified"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave hashes RawPassword into Password when a plaintext was set.
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword verifies a login attempt against the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}
