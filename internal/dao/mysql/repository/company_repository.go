package repository

import (
	"w9ayt_delivery_server/internal/model"

	"gorm.io/gorm"
)

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates the company Repository.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) FindByID(id uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.First(&company, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "find company id=%d", id)
	}
	return &company, nil
}

func (r *companyRepository) FindByUserID(userID uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.Where("user_id = ?", userID).First(&company).Error; err != nil {
		return nil, wrapDBErrorf(err, "find company user_id=%d", userID)
	}
	return &company, nil
}

func (r *companyRepository) FindAll(validation string) ([]model.Company, error) {
	var companies []model.Company
	q := r.db.Order("created_at DESC")
	if validation != "" {
		q = q.Where("validation = ?", validation)
	}
	if err := q.Find(&companies).Error; err != nil {
		return nil, wrapDBError(err, "list companies")
	}
	return companies, nil
}

func (r *companyRepository) Create(company *model.Company) error {
	if err := r.db.Create(company).Error; err != nil {
		return wrapDBError(err, "create company")
	}
	return nil
}

func (r *companyRepository) Update(company *model.Company) error {
	if err := r.db.Save(company).Error; err != nil {
		return wrapDBErrorf(err, "update company id=%d", company.ID)
	}
	return nil
}

func (r *companyRepository) SetValidation(id uint, state string) error {
	if err := r.db.Model(&model.Company{}).Where("id = ?", id).
		Update("validation", state).Error; err != nil {
		return wrapDBErrorf(err, "set company validation id=%d", id)
	}
	return nil
}

func (r *companyRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Company{}, id).Error; err != nil {
		return wrapDBErrorf(err, "delete company id=%d", id)
	}
	return nil
}
