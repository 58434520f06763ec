package repository

import (
	"w9ayt_delivery_server/internal/model"

	"gorm.io/gorm"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates the contact-message Repository.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(msg *model.ContactMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return wrapDBError(err, "create contact message")
	}
	return nil
}

func (r *contactRepository) FindAll() ([]model.ContactMessage, error) {
	var msgs []model.ContactMessage
	if err := r.db.Order("created_at DESC").Find(&msgs).Error; err != nil {
		return nil, wrapDBError(err, "list contact messages")
	}
	return msgs, nil
}

func (r *contactRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ContactMessage{}, id).Error; err != nil {
		return wrapDBErrorf(err, "delete contact message id=%d", id)
	}
	return nil
}
