package repository

import (
	"w9ayt_delivery_server/internal/model"

	"gorm.io/gorm"
)

type driverRepository struct {
	db *gorm.DB
}

// NewDriverRepository creates the driver Repository.
func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &driverRepository{db: db}
}

func (r *driverRepository) FindByID(id uint) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.First(&driver, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "find driver id=%d", id)
	}
	return &driver, nil
}

func (r *driverRepository) FindByUserID(userID uint) (*model.Driver, error) {
	var driver model.Driver
	if err := r.db.Where("user_id = ?", userID).First(&driver).Error; err != nil {
		return nil, wrapDBErrorf(err, "find driver user_id=%d", userID)
	}
	return &driver, nil
}

func (r *driverRepository) FindByCompany(companyID uint) ([]model.Driver, error) {
	var drivers []model.Driver
	if err := r.db.Where("company_id = ?", companyID).
		Order("created_at DESC").Find(&drivers).Error; err != nil {
		return nil, wrapDBErrorf(err, "list drivers company_id=%d", companyID)
	}
	return drivers, nil
}

func (r *driverRepository) Create(driver *model.Driver) error {
	if err := r.db.Create(driver).Error; err != nil {
		return wrapDBError(err, "create driver")
	}
	return nil
}

func (r *driverRepository) Update(driver *model.Driver) error {
	if err := r.db.Save(driver).Error; err != nil {
		return wrapDBErrorf(err, "update driver id=%d", driver.ID)
	}
	return nil
}

func (r *driverRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Driver{}, id).Error; err != nil {
		return wrapDBErrorf(err, "delete driver id=%d", id)
	}
	return nil
}

func (r *driverRepository) SetStatus(id uint, status string) error {
	if err := r.db.Model(&model.Driver{}).Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return wrapDBErrorf(err, "set driver status id=%d", id)
	}
	return nil
}

func (r *driverRepository) IncrementCompleted(id uint) error {
	if err := r.db.Model(&model.Driver{}).Where("id = ?", id).
		Update("livraisons_effectuees", gorm.Expr("livraisons_effectuees + 1")).Error; err != nil {
		return wrapDBErrorf(err, "increment driver deliveries id=%d", id)
	}
	return nil
}

func (r *driverRepository) CountByCompanyAndStatus(companyID uint, status string) (int64, error) {
	var count int64
	q := r.db.Model(&model.Driver{}).Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count drivers company_id=%d", companyID)
	}
	return count, nil
}
