package repository

import (
	"w9ayt_delivery_server/internal/model"

	"gorm.io/gorm"
)

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates the conversation Repository.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindByID(id uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.First(&conversation, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "find conversation id=%d", id)
	}
	return &conversation, nil
}

func (r *conversationRepository) FindByDeliveryID(deliveryID uint) (*model.Conversation, error) {
	var conversation model.Conversation
	if err := r.db.Where("delivery_id = ?", deliveryID).First(&conversation).Error; err != nil {
		return nil, wrapDBErrorf(err, "find conversation delivery_id=%d", deliveryID)
	}
	return &conversation, nil
}

func (r *conversationRepository) FindForUser(userID uint) ([]model.Conversation, error) {
	var conversations []model.Conversation
	if err := r.db.Where("client_user_id = ? OR driver_user_id = ?", userID, userID).
		Find(&conversations).Error; err != nil {
		return nil, wrapDBErrorf(err, "list conversations user_id=%d", userID)
	}
	return conversations, nil
}

func (r *conversationRepository) Create(conversation *model.Conversation) error {
	if err := r.db.Create(conversation).Error; err != nil {
		return wrapDBError(err, "create conversation")
	}
	return nil
}
